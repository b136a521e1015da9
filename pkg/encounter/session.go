package encounter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/encounter-engine/pkg/chat"
	"github.com/jwebster45206/encounter-engine/pkg/combatant"
)

// Status is the lifecycle state of an encounter session.
type Status string

const (
	StatusIdle               Status = "idle"
	StatusConfiguring        Status = "configuring"
	StatusInitializing       Status = "initializing"
	StatusActive             Status = "active"
	StatusAwaitingResolution Status = "awaiting_resolution"
	StatusConcluding         Status = "concluding"
	StatusConcluded          Status = "concluded"
)

// Busy reports whether the session is waiting on an oracle reply. New
// action submissions are rejected while busy; swiping and editing
// previously resolved entries remains allowed.
func (s Status) Busy() bool {
	return s == StatusInitializing || s == StatusAwaitingResolution || s == StatusConcluding
}

// Session is the root aggregate of one encounter. It is owned exclusively
// by the engine; at most one session is active at a time, enforced by the
// orchestrating layer rather than by package-level state.
type Session struct {
	ID     uuid.UUID `json:"id"`
	Status Status    `json:"status"`

	Party      combatant.Roster `json:"party,omitempty"`
	Opposition combatant.Roster `json:"opposition,omitempty"`

	// ActionHistory is the role-tagged conversation sent to and received
	// from the oracle. Append-only; entries are never mutated after insert.
	ActionHistory []chat.ChatMessage `json:"action_history,omitempty"`

	Log Log `json:"log"`

	// Combatants proposed by the oracle but not yet approved by the user.
	// Never merged into the active rosters automatically.
	PendingParty      []combatant.Combatant `json:"pending_party,omitempty"`
	PendingOpposition []combatant.Combatant `json:"pending_opposition,omitempty"`

	ProfileID string `json:"profile_id,omitempty"`

	// Revision fences stale oracle replies. Every outgoing request is
	// tagged with the revision it was built from; manual edits bump it,
	// and replies targeting an older revision are discarded.
	Revision int64 `json:"revision"`

	Turn      int       `json:"turn"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession() *Session {
	return &Session{
		ID:            uuid.New(),
		Status:        StatusIdle,
		ActionHistory: make([]chat.ChatMessage, 0),
		CreatedAt:     time.Now(),
	}
}

// DeepCopy returns an independent copy of the session via a JSON round
// trip. Reconciliation mutates a copy and the engine swaps it in only on
// success, so a failed merge never leaves the session partially updated.
func (s *Session) DeepCopy() (*Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session for copy: %w", err)
	}
	var out Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session copy: %w", err)
	}
	return &out, nil
}

// AppendHistory records one message of the oracle conversation.
func (s *Session) AppendHistory(role, content string) {
	s.ActionHistory = append(s.ActionHistory, chat.ChatMessage{
		Role:    role,
		Content: content,
	})
}

// HistoryWindow returns the most recent messages, up to limit.
func (s *Session) HistoryWindow(limit int) []chat.ChatMessage {
	if limit <= 0 || len(s.ActionHistory) <= limit {
		return s.ActionHistory
	}
	return s.ActionHistory[len(s.ActionHistory)-limit:]
}

// HistoryPrefix returns the first n history messages, used when a
// regeneration replays the conversation as it was at generation time.
func (s *Session) HistoryPrefix(n int) []chat.ChatMessage {
	if n < 0 {
		n = 0
	}
	if n > len(s.ActionHistory) {
		n = len(s.ActionHistory)
	}
	return s.ActionHistory[:n]
}

// Roster returns the named collection, party or opposition.
func (s *Session) Roster(opposition bool) *combatant.Roster {
	if opposition {
		return &s.Opposition
	}
	return &s.Party
}

// ProtectedDown reports whether the user's protected avatar is at 0 HP,
// one of the triggers for concluding the encounter.
func (s *Session) ProtectedDown() bool {
	for i := range s.Party {
		if s.Party[i].IsProtected && s.Party[i].MaxHP > 0 && s.Party[i].HP == 0 {
			return true
		}
	}
	return false
}

// OppositionDefeated reports whether no opposition combatants remain.
func (s *Session) OppositionDefeated() bool {
	return len(s.Opposition) == 0
}
