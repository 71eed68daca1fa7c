// Package profile resolves the per-deployment settings a session starts
// from. The store is read exactly once at session start; nothing here is
// consulted mid-call.
package profile

import "context"

// Profile is the deployment-level configuration for one assistant.
type Profile struct {
	SystemPrompt  string
	Provider      string
	Model         string
	CooldownMS    int
	KBSourceIDs   []string
	TuningMode    string
	SpeakerFilter bool
}

// Store fetches a profile by its public token.
type Store interface {
	Fetch(ctx context.Context, token string) (*Profile, error)
	Close() error
}
