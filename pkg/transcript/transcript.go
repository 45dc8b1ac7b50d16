// Package transcript holds the in-memory chat log for the active session.
// It is append-only and never persisted; export renders a snapshot of it.
package transcript

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Entry is a single speaker-attributed line in the session transcript.
type Entry struct {
	Speaker string
	Text    string
	At      time.Time
}

// Transcript is an ordered, append-only sequence of entries. Safe for
// concurrent use so an async submission can append while the caller reads.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append records a new entry at the end of the transcript.
func (t *Transcript) Append(speaker, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Speaker: speaker, Text: text, At: time.Now()})
}

// Entries returns a copy of the recorded entries in order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of recorded entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// PlainText renders the transcript as "Speaker: text" lines.
func (t *Transcript) PlainText() string {
	var sb strings.Builder
	for i, e := range t.Entries() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %s", e.Speaker, e.Text)
	}
	return sb.String()
}

// HasContent reports whether the transcript contains any non-whitespace text.
func (t *Transcript) HasContent() bool {
	for _, e := range t.Entries() {
		if strings.TrimSpace(e.Text) != "" {
			return true
		}
	}
	return false
}
