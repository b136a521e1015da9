package encounter

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntryKind distinguishes narrative turns from system notices and errors.
type EntryKind string

const (
	EntryNarrative EntryKind = "narrative"
	EntrySystem    EntryKind = "system"
	EntryError     EntryKind = "error"
)

// LogEntry is one turn's narrative output. Swipes holds every alternative
// generation of the entry; regeneration appends rather than overwrites,
// so no prior content is ever lost.
type LogEntry struct {
	ID          int64     `json:"id"`
	Kind        EntryKind `json:"kind"`
	Swipes      []string  `json:"swipes"`
	ActiveSwipe int       `json:"active_swipe"`
	CreatedAt   time.Time `json:"created_at"`

	// OriginAction and OriginState capture the request a narrative entry
	// was generated from, so regeneration produces a genuine alternative
	// outcome for the same input rather than a continuation.
	OriginAction string          `json:"origin_action,omitempty"`
	OriginState  json.RawMessage `json:"origin_state,omitempty"`

	// OriginHistoryLen is the action history length when the entry was
	// generated, so regeneration can replay the same conversation window.
	OriginHistoryLen int `json:"origin_history_len,omitempty"`
}

// ActiveText returns the currently selected swipe.
func (e *LogEntry) ActiveText() string {
	if e.ActiveSwipe < 0 || e.ActiveSwipe >= len(e.Swipes) {
		return ""
	}
	return e.Swipes[e.ActiveSwipe]
}

// Log is the append-only history of encounter narration. NextID is
// persisted with the snapshot so entry IDs stay stable across restore.
type Log struct {
	Entries []LogEntry `json:"entries,omitempty"`
	NextID  int64      `json:"next_id"`
}

// AppendEntry adds a new entry with a single swipe and returns it.
func (l *Log) AppendEntry(kind EntryKind, text string) *LogEntry {
	l.NextID++
	l.Entries = append(l.Entries, LogEntry{
		ID:          l.NextID,
		Kind:        kind,
		Swipes:      []string{text},
		ActiveSwipe: 0,
		CreatedAt:   time.Now(),
	})
	return &l.Entries[len(l.Entries)-1]
}

// Entry returns the entry with the given ID, or nil.
func (l *Log) Entry(id int64) *LogEntry {
	for i := range l.Entries {
		if l.Entries[i].ID == id {
			return &l.Entries[i]
		}
	}
	return nil
}

// AddSwipe appends an alternative generation to an entry and makes it the
// active one.
func (l *Log) AddSwipe(id int64, text string) error {
	e := l.Entry(id)
	if e == nil {
		return fmt.Errorf("log entry %d not found", id)
	}
	e.Swipes = append(e.Swipes, text)
	e.ActiveSwipe = len(e.Swipes) - 1
	return nil
}

// SetActiveSwipe changes which alternative is displayed. It never
// re-triggers reconciliation; stat changes stay as applied when the entry
// was created.
func (l *Log) SetActiveSwipe(id int64, index int) error {
	e := l.Entry(id)
	if e == nil {
		return fmt.Errorf("log entry %d not found", id)
	}
	if index < 0 || index >= len(e.Swipes) {
		return fmt.Errorf("swipe index %d out of range (entry has %d)", index, len(e.Swipes))
	}
	e.ActiveSwipe = index
	return nil
}

// Tail returns the most recent entries, up to limit.
func (l *Log) Tail(limit int) []LogEntry {
	if limit <= 0 || len(l.Entries) <= limit {
		return l.Entries
	}
	return l.Entries[len(l.Entries)-limit:]
}
