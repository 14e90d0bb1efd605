package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrMessageNotFound is returned when a lookup misses.
var ErrMessageNotFound = errors.New("message not found")

// Store defines the interface for targeted-message persistence.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// GetAllMessages retrieves all messages for the given environment.
	// Returns an empty slice if none are found.
	GetAllMessages(ctx context.Context, env string) ([]Message, error)

	// GetMessageByKey retrieves a single message by key and environment.
	// Returns ErrMessageNotFound if the message does not exist.
	GetMessageByKey(ctx context.Context, key, env string) (*Message, error)

	// UpsertMessage creates or updates a message. If a message with the
	// same key and environment exists, it is updated in place.
	UpsertMessage(ctx context.Context, params UpsertParams) error

	// DeleteMessage removes a message by key and environment.
	// Deleting a missing message is not an error (idempotent).
	DeleteMessage(ctx context.Context, key, env string) error

	// Close releases any resources held by the store.
	Close() error
}

// Message is a targeted message: a payload key paired with the serialized
// audience rule that gates it. The audience is stored as its wire document
// and parsed into an immutable rule when the snapshot is built.
type Message struct {
	ID          string          `json:"id"`
	Key         string          `json:"key"`
	Description string          `json:"description"`
	Enabled     bool            `json:"enabled"`
	Audience    json.RawMessage `json:"audience,omitempty"`
	Env         string          `json:"env"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UpsertParams contains the parameters for upserting a message.
// An empty ID lets the store assign one.
type UpsertParams struct {
	ID          string          `json:"id,omitempty"`
	Key         string          `json:"key"`
	Description string          `json:"description"`
	Enabled     bool            `json:"enabled"`
	Audience    json.RawMessage `json:"audience,omitempty"`
	Env         string          `json:"env"`
}
