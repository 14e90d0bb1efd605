package store

import (
	"context"
	"fmt"

	"github.com/shobhitraaj/skytarget/internal/db"
)

// NewStore creates a store based on the given store type.
// Supported types: "memory", "postgres".
func NewStore(ctx context.Context, storeType, dbDSN string) (Store, error) {
	switch storeType {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		pool, err := db.NewPool(ctx, dbDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		return NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
