package storage

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/credvault/credvault/internal/common"
)

var vaultBucket = []byte("vault")

// BoltStore persists keys in a single-bucket bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the database at path with owner-only
// permissions and ensures the vault bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open vault database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(vaultBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create vault bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		stored := tx.Bucket(vaultBucket).Get([]byte(key))
		if stored == nil {
			return fmt.Errorf("%w: %s", common.ErrorNotFound, key)
		}
		value = make([]byte, len(stored))
		copy(value, stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *BoltStore) Put(ctx context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(vaultBucket).Put([]byte(key), value)
	})
}

func (s *BoltStore) Remove(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(vaultBucket).Delete([]byte(key))
	})
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
