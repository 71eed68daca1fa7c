package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoineDubuc/wingman-ai/internal/config"
)

func TestStaticStoreFetch(t *testing.T) {
	t.Parallel()

	root := config.Default()
	root.Session.SystemPrompt = "You are a sales assistant."
	root.Session.TuningMode = "auto"
	root.KB.SourceIDs = []string{"playbook"}
	root.Providers[0].CooldownMS = 5000

	store := NewStaticStore(&root)
	p, err := store.Fetch(context.Background(), "ignored")
	require.NoError(t, err)

	assert.Equal(t, "You are a sales assistant.", p.SystemPrompt)
	assert.Equal(t, "gemini", p.Provider)
	assert.Equal(t, "gemini-2.0-flash", p.Model)
	assert.Equal(t, 5000, p.CooldownMS)
	assert.Equal(t, []string{"playbook"}, p.KBSourceIDs)
	assert.Equal(t, "auto", p.TuningMode)
}

func TestStaticStoreFetchCopiesSourceIDs(t *testing.T) {
	t.Parallel()

	root := config.Default()
	root.KB.SourceIDs = []string{"playbook", "pricing"}

	store := NewStaticStore(&root)
	a, err := store.Fetch(context.Background(), "")
	require.NoError(t, err)
	a.KBSourceIDs[0] = "mutated"

	b, err := store.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "playbook", b.KBSourceIDs[0])
}
