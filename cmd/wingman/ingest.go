package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AntoineDubuc/wingman-ai/internal/config"
	"github.com/AntoineDubuc/wingman-ai/internal/kb"
)

// cmdIngest embeds knowledge-base chunks in bulk and upserts them into the
// vector store. Offline path; uses the batch embedder with its retry loop.
func cmdIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	workspace := fs.String("workspace", ".", "workspace path")
	sourceID := fs.String("source", "", "source id to stamp on chunks that carry none")
	batchSize := fs.Int("batch", 32, "chunks per embedding batch")
	debug := fs.Bool("debug", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) != 1 {
		return errors.New("ingest requires exactly one chunks file")
	}

	abs, err := filepath.Abs(*workspace)
	if err != nil {
		return err
	}
	root, err := config.Load(abs)
	if err != nil {
		return err
	}
	if !root.KB.Enabled {
		return errors.New("kb is not enabled in the workspace config")
	}

	log, err := newLogger(*debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	chunks, err := readChunks(fs.Args()[0], *sourceID)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return errors.New("no chunks to ingest")
	}

	store, err := openKB(root, log)
	if err != nil {
		return err
	}
	defer store.Close()

	embedKeyEnv := root.KB.EmbedKeyEnv
	if embedKeyEnv == "" {
		embedKeyEnv = "GEMINI_API_KEY"
	}
	embedder := kb.NewGeminiEmbedder(root.KB.EmbedModel, os.Getenv(embedKeyEnv), log)

	ctx := context.Background()
	total := 0
	for start := 0; start < len(chunks); start += *batchSize {
		end := start + *batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, 0, len(batch))
		for _, c := range batch {
			texts = append(texts, c.Content)
		}
		vectors, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch starting at %d: %w", start, err)
		}
		if err := store.Upsert(ctx, batch, vectors); err != nil {
			return fmt.Errorf("upsert batch starting at %d: %w", start, err)
		}
		total += len(batch)
	}

	fmt.Printf("ingested %d chunks into %s\n", total, root.KB.Collection)
	return nil
}

func readChunks(path, defaultSource string) ([]kb.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []kb.Chunk
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var c struct {
			ID       string `json:"id"`
			SourceID string `json:"source_id"`
			Content  string `json:"content"`
		}
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		if c.SourceID == "" {
			c.SourceID = defaultSource
		}
		chunks = append(chunks, kb.Chunk{ID: c.ID, SourceID: c.SourceID, Content: c.Content})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}
