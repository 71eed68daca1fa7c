package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AntoineDubuc/wingman-ai/internal/config"
)

func TestKBSearcherDisabledIsUntypedNil(t *testing.T) {
	t.Parallel()

	root := config.Default()
	require.False(t, root.KB.Enabled)

	searcher, err := newKBSearcher(&root, zap.NewNop())
	require.NoError(t, err)

	// Must be an untyped nil: a typed nil *kb.Store stored in the interface
	// would pass the session's nil check and crash on the first lookup.
	assert.True(t, searcher == nil)
}

func TestSimulateReplayWithKBDisabled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Save(dir, config.Default()))

	transcriptPath := filepath.Join(dir, "call.jsonl")
	lines := `{"text":"we need to think about budget","speaker":"customer","is_final":true}
{"text":"what about the support tiers","speaker":"customer","is_final":true}
`
	require.NoError(t, os.WriteFile(transcriptPath, []byte(lines), 0o644))

	// Empty key: every attempt is skipped, so the replay exercises the full
	// wiring without reaching a real backend.
	t.Setenv("GEMINI_API_KEY", "")

	err := cmdSimulate([]string{"--workspace", dir, transcriptPath})
	require.NoError(t, err)
}
