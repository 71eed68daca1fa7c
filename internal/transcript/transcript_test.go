package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	t.Parallel()

	input := `{"text":"hello there","speaker":"customer","is_final":false}

{"text":"hello there how are you","speaker":"customer","is_final":true,"timestamp":"2026-03-01T10:00:00Z"}
{"text":"doing well thanks","speaker":"agent","is_final":true}
`
	events, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.False(t, events[0].IsFinal)
	assert.True(t, events[1].IsFinal)
	assert.Equal(t, "customer", events[1].Speaker)
	assert.Equal(t, 2026, events[1].Timestamp.Year())
	assert.Equal(t, "agent", events[2].Speaker)
}

func TestReadMalformedLine(t *testing.T) {
	t.Parallel()

	input := `{"text":"ok","is_final":true}
not json
`
	_, err := Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadEmpty(t *testing.T) {
	t.Parallel()

	events, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, events)
}
