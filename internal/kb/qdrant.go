package kb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// StoreConfig holds the vector store connection settings.
type StoreConfig struct {
	URL        string
	Collection string
	APIKey     string
	MinScore   float32
	TopK       int
}

// Store implements Searcher over a Qdrant collection.
type Store struct {
	client     *qdrant.Client
	collection string
	embedder   Embedder
	minScore   float32
	topK       int
	log        *zap.Logger
}

// NewStore connects to Qdrant and wires the embedder used for queries.
func NewStore(cfg StoreConfig, embedder Embedder, log *zap.Logger) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	raw := cfg.URL
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse qdrant url: %w", err)
	}

	host := u.Hostname()
	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant port: %w", err)
		}
		port = p
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}

	return &Store{
		client:     client,
		collection: cfg.Collection,
		embedder:   embedder,
		minScore:   cfg.MinScore,
		topK:       topK,
		log:        log,
	}, nil
}

// Search embeds the query and runs a filtered similarity search. Chunks
// below the score threshold are dropped; the remaining chunk texts are
// joined into one context block.
func (s *Store) Search(ctx context.Context, query string, sourceIDs []string) (Result, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("embed query: %w", err)
	}

	limit := uint64(s.topK)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		Filter:         buildSourceFilter(sourceIDs),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return Result{}, fmt.Errorf("qdrant search: %w", err)
	}

	var (
		parts  []string
		source string
	)
	for _, point := range points {
		if s.minScore > 0 && point.Score < s.minScore {
			continue
		}
		content := point.Payload["content"].GetStringValue()
		if content == "" {
			continue
		}
		parts = append(parts, content)
		if source == "" {
			source = point.Payload["source_id"].GetStringValue()
		}
	}

	if len(parts) == 0 {
		return Result{}, nil
	}

	s.log.Debug("kb hit",
		zap.Int("chunks", len(parts)),
		zap.String("source", source))

	return Result{
		Matched: true,
		Context: strings.Join(parts, "\n\n"),
		Source:  source,
	}, nil
}

// Upsert writes chunks and their vectors into the collection. Vector count
// must match chunk count.
func (s *Store) Upsert(ctx context.Context, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, c := range chunks {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":   c.Content,
				"source_id": c.SourceID,
			}),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func buildSourceFilter(sourceIDs []string) *qdrant.Filter {
	if len(sourceIDs) == 0 {
		return nil
	}

	var match *qdrant.Match
	if len(sourceIDs) == 1 {
		match = &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: sourceIDs[0]}}
	} else {
		keywords := make([]string, len(sourceIDs))
		copy(keywords, sourceIDs)
		match = &qdrant.Match{
			MatchValue: &qdrant.Match_Keywords{
				Keywords: &qdrant.RepeatedStrings{Strings: keywords},
			},
		}
	}

	return &qdrant.Filter{
		Must: []*qdrant.Condition{{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key:   "source_id",
					Match: match,
				},
			},
		}},
	}
}

var _ Searcher = (*Store)(nil)
