package config

import (
	"fmt"
)

type RootConfig struct {
	Version         int              `yaml:"version"`
	DefaultProvider string           `yaml:"default_provider"`
	Providers       []ProviderConfig `yaml:"providers"`
	Session         SessionConfig    `yaml:"session"`
	KB              KBConfig         `yaml:"kb"`
	Profile         ProfileConfig    `yaml:"profile"`
	Archive         ArchiveConfig    `yaml:"archive"`
	Usage           UsageConfig      `yaml:"usage"`
}

type ProviderConfig struct {
	Name      string `yaml:"name"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	// CooldownMS widens the registry default spacing between generation
	// attempts; values below the default are clamped up at session start.
	CooldownMS int `yaml:"cooldown_ms"`
	TimeoutMS  int `yaml:"timeout_ms"`
}

type SessionConfig struct {
	SystemPrompt  string  `yaml:"system_prompt"`
	MaxTurns      int     `yaml:"max_turns"`
	MaxTokens     int     `yaml:"max_tokens"`
	Temperature   float64 `yaml:"temperature"`
	TuningMode    string  `yaml:"tuning_mode"`
	SpeakerFilter bool    `yaml:"speaker_filter"`
}

type KBConfig struct {
	Enabled     bool     `yaml:"enabled"`
	URL         string   `yaml:"url"`
	Collection  string   `yaml:"collection"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	EmbedModel  string   `yaml:"embed_model"`
	EmbedKeyEnv string   `yaml:"embed_key_env"`
	SourceIDs   []string `yaml:"source_ids"`
	MinScore    float32  `yaml:"min_score"`
	TopK        int      `yaml:"top_k"`
}

type ProfileConfig struct {
	Driver      string `yaml:"driver"`
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	PublicToken string `yaml:"public_token"`
}

type ArchiveConfig struct {
	Driver    string `yaml:"driver"`
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	TTLHours  int    `yaml:"ttl_hours"`
}

type UsageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type IssueLevel string

const (
	IssueError   IssueLevel = "error"
	IssueWarning IssueLevel = "warning"
)

type Issue struct {
	Level   IssueLevel
	Path    string
	Field   string
	Message string
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("[%s] %s: %s", i.Level, i.Path, i.Message)
	}
	return fmt.Sprintf("[%s] %s (%s): %s", i.Level, i.Path, i.Field, i.Message)
}

type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed with %d issue(s)", len(e.Issues))
}

func (e *ValidationError) HasErrors() bool {
	if e == nil {
		return false
	}
	for _, it := range e.Issues {
		if it.Level == IssueError {
			return true
		}
	}
	return false
}
