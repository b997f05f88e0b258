package store

import (
	"context"
)

// Storage is the key/value backend underneath a Store. It holds the current
// names blob under CurrentKey and the timestamped backups next to it.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Write replaces the bytes stored under key.
	Write(ctx context.Context, key string, data []byte) error
	// Read returns os.ErrNotExist for an unknown key.
	Read(ctx context.Context, key string) ([]byte, error)
	// List returns the keys starting with prefix, newest backup first.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete is a no-op for an unknown key.
	Delete(ctx context.Context, key string) error
	Close() error
}
