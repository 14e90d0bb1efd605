package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses a map keyed by key+env and an RWMutex for concurrent access.
// Suitable for development, testing, or single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[memoryKey]Message
}

type memoryKey struct {
	key string
	env string
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make(map[memoryKey]Message),
	}
}

// GetAllMessages retrieves all messages for the given environment.
func (m *MemoryStore) GetAllMessages(ctx context.Context, env string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Message, 0, len(m.messages))
	for k, msg := range m.messages {
		if k.env == env {
			result = append(result, msg)
		}
	}
	return result, nil
}

// GetMessageByKey retrieves a single message by key and environment.
func (m *MemoryStore) GetMessageByKey(ctx context.Context, key, env string) (*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, exists := m.messages[memoryKey{key: key, env: env}]
	if !exists {
		return nil, ErrMessageNotFound
	}
	return &msg, nil
}

// UpsertMessage creates or updates a message in memory.
func (m *MemoryStore) UpsertMessage(ctx context.Context, params UpsertParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := memoryKey{key: params.Key, env: params.Env}

	id := params.ID
	if id == "" {
		if existing, exists := m.messages[k]; exists {
			id = existing.ID
		} else {
			id = uuid.NewString()
		}
	}

	m.messages[k] = Message{
		ID:          id,
		Key:         params.Key,
		Description: params.Description,
		Enabled:     params.Enabled,
		Audience:    params.Audience,
		Env:         params.Env,
		UpdatedAt:   time.Now().UTC(),
	}
	return nil
}

// DeleteMessage removes a message from memory. Idempotent.
func (m *MemoryStore) DeleteMessage(ctx context.Context, key, env string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.messages, memoryKey{key: key, env: env})
	return nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}
