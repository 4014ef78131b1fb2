// Package events publishes ledger change notifications to other systems.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Event describes one change to a group's ledger.
type Event struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	ActorEmail string          `json:"actor_email"`
	ActorName  string          `json:"actor_name"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// RoutingKey is "ledger.<entity>.<action>", lower-cased.
func (e Event) RoutingKey() string {
	return "ledger." + strings.ToLower(e.EntityType) + "." + strings.ToLower(e.Action)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Memory keeps published events in memory. Useful in tests and for local runs.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
