package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AntoineDubuc/wingman-ai/internal/archive"
	"github.com/AntoineDubuc/wingman-ai/internal/config"
	"github.com/AntoineDubuc/wingman-ai/internal/engine"
	"github.com/AntoineDubuc/wingman-ai/internal/kb"
	"github.com/AntoineDubuc/wingman-ai/internal/profile"
	"github.com/AntoineDubuc/wingman-ai/internal/provider"
	"github.com/AntoineDubuc/wingman-ai/internal/transcript"
	"github.com/AntoineDubuc/wingman-ai/internal/tuning"
	"github.com/AntoineDubuc/wingman-ai/internal/usage"
)

// cmdSimulate replays a recorded transcript through a live session,
// printing every suggestion the engine would have produced on the call.
func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	workspace := fs.String("workspace", ".", "workspace path")
	selfSpeaker := fs.String("speaker", "agent", "speaker name treated as self when the speaker filter is on")
	withSummary := fs.Bool("summary", false, "generate the end-of-call summary after the replay")
	debug := fs.Bool("debug", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) != 1 {
		return errors.New("simulate requires exactly one transcript file")
	}

	abs, err := filepath.Abs(*workspace)
	if err != nil {
		return err
	}
	root, err := config.Load(abs)
	if err != nil {
		return err
	}
	if verr := config.Validate(root); verr != nil && verr.HasErrors() {
		for _, issue := range verr.Issues {
			fmt.Println(issue.String())
		}
		return errors.New("configuration has errors")
	}

	log, err := newLogger(*debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := os.Open(fs.Args()[0])
	if err != nil {
		return err
	}
	events, err := transcript.Read(f)
	f.Close()
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return errors.New("transcript is empty")
	}

	ctx := context.Background()

	prof := loadProfile(ctx, root, log)

	providerName := prof.Provider
	if providerName == "" {
		providerName = root.DefaultProvider
	}
	info, err := provider.Lookup(providerName)
	if err != nil {
		return err
	}

	var provCfg config.ProviderConfig
	for _, pc := range root.Providers {
		if pc.Name == providerName {
			provCfg = pc
		}
	}

	keyEnv := provCfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = info.DefaultKeyEnv
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		log.Warn("api key env is empty, every attempt will be skipped", zap.String("env", keyEnv))
	}

	model := prof.Model
	if model == "" {
		model = provCfg.Model
	}
	cooldownMS := prof.CooldownMS
	if cooldownMS == 0 {
		cooldownMS = provCfg.CooldownMS
	}

	searcher, err := newKBSearcher(root, log)
	if err != nil {
		return err
	}
	if searcher != nil {
		defer searcher.Close()
	}

	sink, err := openArchive(root)
	if err != nil {
		return err
	}
	defer sink.Close()

	var tracker *usage.Tracker
	if root.Usage.Enabled {
		tracker = usage.NewTracker(filepath.Join(abs, root.Usage.Path))
	}

	timeout := time.Duration(provCfg.TimeoutMS) * time.Millisecond
	session := engine.NewSession(engine.Options{
		Provider:      info,
		APIKey:        apiKey,
		Model:         model,
		CooldownMS:    cooldownMS,
		SystemPrompt:  prof.SystemPrompt,
		MaxTurns:      root.Session.MaxTurns,
		MaxTokens:     root.Session.MaxTokens,
		Temperature:   root.Session.Temperature,
		TuningMode:    tuning.ParseMode(prof.TuningMode),
		KBSourceIDs:   prof.KBSourceIDs,
		SpeakerFilter: prof.SpeakerFilter,
		SelfSpeaker:   *selfSpeaker,
		Caller:        provider.NewClient(timeout, log),
		KB:            searcher,
		Archive:       sink,
		Usage:         tracker,
		Logger:        log,
	})

	var turns []engine.Turn
	suggestions := 0
	for _, ev := range events {
		if ev.IsFinal {
			turns = append(turns, engine.Turn{Speaker: ev.Speaker, Text: ev.Text, Timestamp: ev.Timestamp})
		}
		sug := session.ProcessTranscript(ctx, ev.Text, ev.Speaker, ev.IsFinal)
		if sug == nil {
			continue
		}
		suggestions++
		if sug.KBSource != "" {
			fmt.Printf("[%s] (%s, kb:%s) %s\n", sug.Type, sug.Source, sug.KBSource, sug.Text)
		} else {
			fmt.Printf("[%s] (%s) %s\n", sug.Type, sug.Source, sug.Text)
		}
	}
	fmt.Printf("replayed %d events, %d suggestions\n", len(events), suggestions)

	if *withSummary {
		meta := summaryMetadata(events, turns)
		summary := session.GenerateCallSummary(ctx, turns, meta)
		if summary == nil {
			fmt.Println("no summary produced")
		} else {
			printSummary(summary)
		}
	}

	if tracker != nil {
		if err := tracker.Save(); err != nil {
			log.Warn("save usage failed", zap.Error(err))
		}
	}
	return nil
}

// loadProfile fetches the deployment profile. A remote store failure falls
// back to the local config rather than blocking the session.
func loadProfile(ctx context.Context, root *config.RootConfig, log *zap.Logger) *profile.Profile {
	static := func() *profile.Profile {
		p, _ := profile.NewStaticStore(root).Fetch(ctx, "")
		return p
	}

	if root.Profile.Driver != "supabase" {
		return static()
	}

	apiKey := os.Getenv(root.Profile.APIKeyEnv)
	store, err := profile.NewSupabaseStore(root.Profile.URL, apiKey)
	if err != nil {
		log.Warn("profile store unavailable, using local config", zap.Error(err))
		return static()
	}
	defer store.Close()

	p, err := store.Fetch(ctx, root.Profile.PublicToken)
	if err != nil {
		log.Warn("profile fetch failed, using local config", zap.Error(err))
		return static()
	}
	return p
}

// newKBSearcher adapts openKB for the session's interface field. A
// disabled kb must come through as an untyped nil; assigning a typed nil
// *kb.Store into the interface would defeat the session's "no kb" check.
func newKBSearcher(root *config.RootConfig, log *zap.Logger) (kb.Searcher, error) {
	store, err := openKB(root, log)
	if err != nil || store == nil {
		return nil, err
	}
	return store, nil
}

func openKB(root *config.RootConfig, log *zap.Logger) (*kb.Store, error) {
	if !root.KB.Enabled {
		return nil, nil
	}
	embedKeyEnv := root.KB.EmbedKeyEnv
	if embedKeyEnv == "" {
		embedKeyEnv = "GEMINI_API_KEY"
	}
	embedder := kb.NewGeminiEmbedder(root.KB.EmbedModel, os.Getenv(embedKeyEnv), log)
	return kb.NewStore(kb.StoreConfig{
		URL:        root.KB.URL,
		Collection: root.KB.Collection,
		APIKey:     os.Getenv(root.KB.APIKeyEnv),
		MinScore:   root.KB.MinScore,
		TopK:       root.KB.TopK,
	}, embedder, log)
}

func openArchive(root *config.RootConfig) (archive.Sink, error) {
	switch root.Archive.Driver {
	case "", "memory":
		return archive.NewMemorySink(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: root.Archive.RedisAddr,
			DB:   root.Archive.RedisDB,
		})
		ttl := time.Duration(root.Archive.TTLHours) * time.Hour
		return archive.NewRedisSink(client, ttl), nil
	default:
		return nil, fmt.Errorf("unknown archive driver %q", root.Archive.Driver)
	}
}

func summaryMetadata(events []transcript.Event, turns []engine.Turn) engine.SummaryMetadata {
	speakers := map[string]struct{}{}
	for _, t := range turns {
		speakers[t.Speaker] = struct{}{}
	}

	var duration float64
	first, last := events[0].Timestamp, events[len(events)-1].Timestamp
	if !first.IsZero() && !last.IsZero() && last.After(first) {
		duration = last.Sub(first).Seconds()
	}

	return engine.SummaryMetadata{
		DurationSeconds: duration,
		SpeakerCount:    len(speakers),
		TranscriptCount: len(turns),
	}
}

func printSummary(s *engine.CallSummary) {
	fmt.Println("summary:")
	fmt.Println("  topics:")
	for _, topic := range s.Topics {
		fmt.Println("    -", topic)
	}
	fmt.Println("  action items:")
	for _, ai := range s.ActionItems {
		fmt.Printf("    - [%s] %s\n", ai.Owner, ai.Text)
	}
	fmt.Println("  key moments:")
	for _, km := range s.KeyMoments {
		fmt.Printf("    - (%s) %s\n", km.Type, km.Text)
	}
	fmt.Printf("  %d lines, %d speakers, %.0fs\n",
		s.Metadata.TranscriptCount, s.Metadata.SpeakerCount, s.Metadata.DurationSeconds)
}
