package interfaces

import "context"

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (BadgerDB now, something else later).
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	Close() error
}

// KeyValueStorage provides basic key-value operations. The portfolio store
// is its only writer; other components treat it as read-only.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
}
