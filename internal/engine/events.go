package engine

import (
	"log/slog"
	"sync"
)

// EventType represents the type of engine event being broadcast
type EventType string

const (
	EventSessionUpdated  EventType = "session.updated"
	EventEntryAdded      EventType = "entry.added"
	EventPendingChanged  EventType = "pending.changed"
	EventConcluded       EventType = "session.concluded"
	EventEncounterFailed EventType = "encounter.failed"
)

// Event is one state-change notification emitted to the host UI.
type Event struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster fans engine events out to host UI subscribers. Delivery is
// best-effort: a subscriber that stops draining its channel loses events
// rather than blocking the engine.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	logger *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		subs:   make(map[int]chan Event),
		logger: logger,
	}
}

// Subscribe registers a new listener and returns its ID and channel.
func (b *Broadcaster) Subscribe() (int, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	ch := make(chan Event, 32)
	b.subs[b.nextID] = ch
	return b.nextID, ch
}

// Unsubscribe removes a listener and closes its channel.
func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// Publish delivers an event to every subscriber without blocking.
func (b *Broadcaster) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			if b.logger != nil {
				b.logger.Warn("Dropping event for slow subscriber",
					"subscriber", id, "type", event.Type)
			}
		}
	}
}
