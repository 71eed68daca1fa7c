package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "wingman:session:"
	defaultTTL       = 24 * time.Hour
)

// RedisSink appends suggestions to a per-session list and stores the
// summary under its own key, both with a TTL so abandoned sessions age out.
type RedisSink struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSink(client *redis.Client, ttl time.Duration) *RedisSink {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisSink{client: client, ttl: ttl}
}

func (r *RedisSink) RecordSuggestion(ctx context.Context, rec SuggestionRecord) error {
	key := sessionKeyPrefix + rec.SessionID + ":suggestions"
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal suggestion: %w", err)
	}
	if err := r.client.RPush(ctx, key, val).Err(); err != nil {
		return fmt.Errorf("rpush suggestion: %w", err)
	}
	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}
	return nil
}

func (r *RedisSink) RecordSummary(ctx context.Context, rec SummaryRecord) error {
	key := sessionKeyPrefix + rec.SessionID + ":summary"
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := r.client.Set(ctx, key, val, r.ttl).Err(); err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	return nil
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}

var _ Sink = (*RedisSink)(nil)
