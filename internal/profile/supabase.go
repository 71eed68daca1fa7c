package profile

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// assistantRow mirrors the assistants table.
type assistantRow struct {
	ID            string   `json:"id"`
	PublicToken   string   `json:"public_token"`
	SystemPrompt  string   `json:"system_prompt"`
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	CooldownMS    int      `json:"cooldown_ms"`
	KBSourceIDs   []string `json:"kb_source_ids"`
	TuningMode    string   `json:"tuning_mode"`
	SpeakerFilter bool     `json:"speaker_filter"`
}

// SupabaseStore fetches profiles from the assistants table by public token.
type SupabaseStore struct {
	client *supabase.Client
}

func NewSupabaseStore(url, apiKey string) (*SupabaseStore, error) {
	if url == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("supabase api key is required")
	}
	client, err := supabase.NewClient(url, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

func (s *SupabaseStore) Fetch(ctx context.Context, token string) (*Profile, error) {
	var rows []assistantRow
	_, err := s.client.From("assistants").
		Select("*", "", false).
		Eq("public_token", token).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("fetch assistant by token: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("assistant not found for token")
	}

	row := rows[0]
	return &Profile{
		SystemPrompt:  row.SystemPrompt,
		Provider:      row.Provider,
		Model:         row.Model,
		CooldownMS:    row.CooldownMS,
		KBSourceIDs:   row.KBSourceIDs,
		TuningMode:    row.TuningMode,
		SpeakerFilter: row.SpeakerFilter,
	}, nil
}

func (s *SupabaseStore) Close() error { return nil }

var _ Store = (*SupabaseStore)(nil)
