package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const RootConfigFile = "wingman.yaml"

func Load(workspace string) (*RootConfig, error) {
	rootPath := filepath.Join(workspace, RootConfigFile)
	b, err := os.ReadFile(rootPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rootPath, err)
	}

	var root RootConfig
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", rootPath, err)
	}
	applyDefaults(&root)
	return &root, nil
}

func Save(workspace string, root RootConfig) error {
	if root.Version <= 0 {
		root.Version = 1
	}
	b, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", RootConfigFile, err)
	}
	rootPath := filepath.Join(workspace, RootConfigFile)
	if err := os.WriteFile(rootPath, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rootPath, err)
	}
	return nil
}

func applyDefaults(root *RootConfig) {
	if root.Version == 0 {
		root.Version = 1
	}
	if root.Session.MaxTurns == 0 {
		root.Session.MaxTurns = 10
	}
	if root.Session.MaxTokens == 0 {
		root.Session.MaxTokens = 512
	}
	if root.Session.Temperature == 0 {
		root.Session.Temperature = 0.7
	}
	if root.Session.TuningMode == "" {
		root.Session.TuningMode = "off"
	}
	if root.KB.TopK == 0 {
		root.KB.TopK = 3
	}
	if root.KB.EmbedModel == "" {
		root.KB.EmbedModel = "gemini-embedding-001"
	}
	if root.Profile.Driver == "" {
		root.Profile.Driver = "static"
	}
	if root.Archive.Driver == "" {
		root.Archive.Driver = "memory"
	}
	if root.Archive.TTLHours == 0 {
		root.Archive.TTLHours = 24
	}
	if root.Usage.Path == "" {
		root.Usage.Path = "usage.json"
	}
}

// Default returns the starter configuration written by `wingman init`.
func Default() RootConfig {
	return RootConfig{
		Version:         1,
		DefaultProvider: "gemini",
		Providers: []ProviderConfig{
			{Name: "gemini", APIKeyEnv: "GEMINI_API_KEY", Model: "gemini-2.0-flash"},
			{Name: "openai", APIKeyEnv: "OPENAI_API_KEY", Model: "gpt-4o-mini"},
			{Name: "groq", APIKeyEnv: "GROQ_API_KEY", Model: "llama-3.3-70b-versatile"},
		},
		Session: SessionConfig{
			MaxTurns:    10,
			MaxTokens:   512,
			Temperature: 0.7,
			TuningMode:  "off",
		},
		Archive: ArchiveConfig{Driver: "memory", TTLHours: 24},
		Usage:   UsageConfig{Enabled: true, Path: "usage.json"},
	}
}
