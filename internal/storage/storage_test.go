package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/common"
)

// testStoreContract exercises the behavior every Store implementation
// must share.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.Put(ctx, "vault", []byte("first")))
	got, err := s.Get(ctx, "vault")
	require.NoError(t, err)
	require.Equal(t, []byte("first"), got)

	// Overwrite.
	require.NoError(t, s.Put(ctx, "vault", []byte("second")))
	got, err = s.Get(ctx, "vault")
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)

	// Keys are independent.
	require.NoError(t, s.Put(ctx, "profile", []byte("p")))
	got, err = s.Get(ctx, "vault")
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)

	require.NoError(t, s.Remove(ctx, "vault"))
	_, err = s.Get(ctx, "vault")
	require.ErrorIs(t, err, common.ErrorNotFound)

	// Removing an absent key is not an error.
	require.NoError(t, s.Remove(ctx, "vault"))
}

func TestInMemoryStore_Contract(t *testing.T) {
	testStoreContract(t, NewInMemoryStore())
}

func TestInMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	value := []byte("original")
	require.NoError(t, s.Put(ctx, "k", value))
	value[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), again)
}

func TestFileStore_Contract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	testStoreContract(t, s)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.json")

	s1, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Put(ctx, "vault", []byte("persisted")))

	s2, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := s2.Get(ctx, "vault")
	require.NoError(t, err)
	require.Equal(t, []byte("persisted"), got)
}

func TestBoltStore_Contract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	s, err := NewBoltStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	testStoreContract(t, s)
}

func TestSQLiteStore_Contract(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, "file:storetest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	testStoreContract(t, s)
}
