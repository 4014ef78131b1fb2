// Package audit records every mutation of a group's ledger: it persists an
// audit entry and then publishes the same change as an event.
//
// Recording is best effort. A failure is logged and never fails the
// operation that caused it.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/sharedledger/internal/events"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
)

// Fields is a flat description of an entity. Values must be JSON-like:
// nil, bool, numbers, strings, []any or map[string]any.
type Fields map[string]any

// Actor is who made the change.
type Actor struct {
	Email string
	Name  string
}

// Recorder writes audit entries and publishes events.
type Recorder struct {
	store     storage.AuditStore
	publisher events.Publisher
	now       func() time.Time
}

// NewRecorder creates a Recorder. A nil publisher disables publishing.
func NewRecorder(store storage.AuditStore, publisher events.Publisher) *Recorder {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Recorder{store: store, publisher: publisher, now: time.Now}
}

// Created records a CREATE with a snapshot of the new entity.
func (r *Recorder) Created(ctx context.Context, actor Actor, groupID, entityType, entityID string, fields Fields) {
	r.record(ctx, actor, groupID, entityType, entityID, models.ActionCreate, map[string]any(fields))
}

// Updated records an UPDATE with before and after snapshots.
func (r *Recorder) Updated(ctx context.Context, actor Actor, groupID, entityType, entityID string, before, after Fields) {
	r.record(ctx, actor, groupID, entityType, entityID, models.ActionUpdate, map[string]any{
		"before": map[string]any(before),
		"after":  map[string]any(after),
	})
}

// Deleted records a DELETE with a snapshot of the removed entity under
// "deleted_<entity>".
func (r *Recorder) Deleted(ctx context.Context, actor Actor, groupID, entityType, entityID string, fields Fields) {
	r.record(ctx, actor, groupID, entityType, entityID, models.ActionDelete, map[string]any{
		"deleted_" + entityType: map[string]any(fields),
	})
}

// Record records an arbitrary change, such as a membership update
// recorded against its group.
func (r *Recorder) Record(ctx context.Context, actor Actor, groupID, entityType, entityID, action string, changes Fields) {
	r.record(ctx, actor, groupID, entityType, entityID, action, map[string]any(changes))
}

func (r *Recorder) record(ctx context.Context, actor Actor, groupID, entityType, entityID, action string, changes map[string]any) {
	body, err := EncodeChanges(changes)
	if err != nil {
		slog.Error("Failed to encode audit changes", "entity_type", entityType, "entity_id", entityID, "error", err)
		body = []byte("{}")
	}

	entry := &models.AuditEntry{
		ID:         uuid.New().String(),
		GroupID:    groupID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    body,
		ActorEmail: actor.Email,
		ActorName:  actor.Name,
		CreatedAt:  r.now().Unix(),
	}
	if err := r.store.CreateAuditEntry(ctx, entry); err != nil {
		slog.Error("Failed to write audit entry", "group_id", groupID, "entity_id", entityID, "action", action, "error", err)
	}

	event := events.Event{
		ID:         entry.ID,
		GroupID:    groupID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorEmail: actor.Email,
		ActorName:  actor.Name,
		Changes:    body,
		OccurredAt: time.Unix(entry.CreatedAt, 0).UTC(),
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish ledger event", "routing_key", event.RoutingKey(), "error", err)
	}
}

// EncodeChanges renders changes as a compact JSON object.
func EncodeChanges(changes map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(changes)
	if err != nil {
		return nil, fmt.Errorf("convert changes: %w", err)
	}
	body, err := protojson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal changes: %w", err)
	}
	return body, nil
}

// DecodeChanges parses a stored changes object.
func DecodeChanges(body []byte) (map[string]any, error) {
	if len(body) == 0 {
		return map[string]any{}, nil
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(body, s); err != nil {
		return nil, fmt.Errorf("unmarshal changes: %w", err)
	}
	return s.AsMap(), nil
}
