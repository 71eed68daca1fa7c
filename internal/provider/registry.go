// Package provider holds the per-backend registry and the wire adapter that
// translates format-neutral generation requests into provider-shaped HTTP
// calls. Decision logic elsewhere dispatches on the wire family only, never
// on individual provider names; adding a provider within an existing family
// is a registry entry and nothing else.
package provider

import (
	"fmt"
	"sort"
	"time"
)

// Family is the wire-format group a backend belongs to.
type Family string

const (
	// FamilyNative is the Gemini generateContent shape: system instruction in
	// a separate field, parts-based turns, key as a URL query parameter, and
	// 429 retry delay embedded in the JSON error body.
	FamilyNative Family = "native"
	// FamilyOpenAI is the chat/completions shape shared by OpenAI-compatible
	// backends: system message first, bearer auth, Retry-After header on 429.
	FamilyOpenAI Family = "openai"
)

// Info holds the static facts for one backend.
type Info struct {
	Name            string
	Family          Family
	BaseURL         string
	DefaultModel    string
	DefaultKeyEnv   string
	DefaultCooldown time.Duration
}

var registry = map[string]Info{
	"gemini": {
		Name:            "gemini",
		Family:          FamilyNative,
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		DefaultModel:    "gemini-2.0-flash",
		DefaultKeyEnv:   "GEMINI_API_KEY",
		DefaultCooldown: 2 * time.Second,
	},
	"openai": {
		Name:            "openai",
		Family:          FamilyOpenAI,
		BaseURL:         "https://api.openai.com/v1",
		DefaultModel:    "gpt-4o-mini",
		DefaultKeyEnv:   "OPENAI_API_KEY",
		DefaultCooldown: 2 * time.Second,
	},
	"groq": {
		Name:            "groq",
		Family:          FamilyOpenAI,
		BaseURL:         "https://api.groq.com/openai/v1",
		DefaultModel:    "llama-3.3-70b-versatile",
		DefaultKeyEnv:   "GROQ_API_KEY",
		DefaultCooldown: 3 * time.Second,
	},
}

// Lookup returns the registry entry for a provider name.
func Lookup(name string) (Info, error) {
	info, ok := registry[name]
	if !ok {
		return Info{}, fmt.Errorf("unknown provider %q (known: %v)", name, Names())
	}
	return info, nil
}

// Names returns the registered provider names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
