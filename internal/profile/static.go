package profile

import (
	"context"

	"github.com/AntoineDubuc/wingman-ai/internal/config"
)

// StaticStore serves a profile assembled from the workspace config. It is
// the default when no remote profile backend is configured.
type StaticStore struct {
	profile Profile
}

func NewStaticStore(root *config.RootConfig) *StaticStore {
	var (
		cooldown int
		model    string
	)
	for _, pc := range root.Providers {
		if pc.Name == root.DefaultProvider {
			cooldown = pc.CooldownMS
			model = pc.Model
		}
	}
	return &StaticStore{
		profile: Profile{
			SystemPrompt:  root.Session.SystemPrompt,
			Provider:      root.DefaultProvider,
			Model:         model,
			CooldownMS:    cooldown,
			KBSourceIDs:   root.KB.SourceIDs,
			TuningMode:    root.Session.TuningMode,
			SpeakerFilter: root.Session.SpeakerFilter,
		},
	}
}

// Fetch ignores the token; the static store has exactly one profile.
func (s *StaticStore) Fetch(ctx context.Context, token string) (*Profile, error) {
	p := s.profile
	p.KBSourceIDs = append([]string(nil), s.profile.KBSourceIDs...)
	return &p, nil
}

func (s *StaticStore) Close() error { return nil }

var _ Store = (*StaticStore)(nil)
