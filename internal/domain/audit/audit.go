// Package audit defines the domain contract for audit trail recording.
// The storage implementation lives in infrastructure/storage/postgres.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"procura/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionCommit Action = "commit"
	ActionCancel Action = "cancel"
	ActionDelete Action = "delete"
)

// Entry is one audit trail record. Payload is serialized (and compressed
// when large) by the recorder implementation.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	Payload    any
}

// Recorder persists audit entries. Recording is best-effort from the
// caller's perspective: a failed audit write must not fail the business
// operation.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Record is one persisted audit entry as read back from the trail.
// Payload is the original serialized payload, already decompressed.
type Record struct {
	ID         id.ID           `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   id.ID           `json:"entityId"`
	Action     Action          `json:"action"`
	UserID     string          `json:"userId"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// HistoryReader retrieves the audit trail for a single entity,
// newest first.
type HistoryReader interface {
	GetEntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Record, error)
}

// Nop is a Recorder that discards entries. Useful in tests.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(ctx context.Context, entry Entry) error { return nil }
