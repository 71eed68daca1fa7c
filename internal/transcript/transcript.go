// Package transcript reads recorded call transcripts in JSONL form, one
// event per line. The simulator replays these through a live session.
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Event is one transcription result from the speech layer.
type Event struct {
	Text      string    `json:"text"`
	Speaker   string    `json:"speaker"`
	IsFinal   bool      `json:"is_final"`
	Timestamp time.Time `json:"timestamp"`
}

// Read decodes all events from r. Blank lines are skipped; a malformed
// line fails the whole read with its line number.
func Read(r io.Reader) ([]Event, error) {
	var events []Event

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return events, nil
}
