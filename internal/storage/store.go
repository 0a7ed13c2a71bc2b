// Package storage defines the key-addressed persistence interface the vault
// writes through, with in-memory, file, bbolt, SQLite, Postgres, and S3
// implementations.
//
// The interface is deliberately minimal: three fallible operations on
// independent keys. No implementation promises transactional multi-key
// writes, and callers must not assume them.
package storage

import "context"

// Store is the external persistence API consumed by the vault.
type Store interface {
	// Get returns the value stored under key, or common.ErrorNotFound
	// when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
