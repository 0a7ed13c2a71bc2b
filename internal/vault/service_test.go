package vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
	"github.com/credvault/credvault/internal/models"
	"github.com/credvault/credvault/internal/storage"
)

func testKeyAndSalt(t *testing.T, password string) ([]byte, []byte) {
	t.Helper()
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key, err := cryptox.DerivePasswordKey([]byte(password), salt)
	require.NoError(t, err)
	return key, salt
}

func testCredentials(t *testing.T) []models.Credential {
	t.Helper()
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return []models.Credential{
		{ID: "c1", URL: "https://example.com", Username: "u", Password: "p", CreatedAt: created},
		{ID: "c2", URL: "https://mail.example.org", Username: "alice", Password: "hunter2", CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
	}
}

func TestService_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemoryStore())
	key, salt := testKeyAndSalt(t, "Secure123!")
	want := testCredentials(t)

	require.NoError(t, s.Save(ctx, want, key, salt))

	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestService_LoadAbsent(t *testing.T) {
	s := NewService(storage.NewInMemoryStore())
	key, _ := testKeyAndSalt(t, "Secure123!")

	_, err := s.Load(context.Background(), key)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestService_LoadWrongKey(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemoryStore())
	key, salt := testKeyAndSalt(t, "Secure123!")
	require.NoError(t, s.Save(ctx, testCredentials(t), key, salt))

	wrongKey, _ := testKeyAndSalt(t, "Secure123?")
	_, err := s.Load(ctx, wrongKey)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestService_LoadMalformedBlob(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemoryStore()
	require.NoError(t, store.Put(ctx, VaultStateKey, []byte(`{"data":""}`)))

	s := NewService(store)
	key, _ := testKeyAndSalt(t, "Secure123!")

	_, err := s.Load(ctx, key)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestService_SaveRejectsInvalidCredential(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemoryStore())
	key, salt := testKeyAndSalt(t, "Secure123!")

	list := testCredentials(t)
	list[0].Password = ""
	err := s.Save(ctx, list, key, salt)
	require.ErrorIs(t, err, common.ErrValidation)
}

type failingStore struct {
	storage.Store
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	return errors.New("quota exceeded")
}

func TestService_SaveStorageFailure(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewInMemoryStore()
	key, salt := testKeyAndSalt(t, "Secure123!")
	want := testCredentials(t)

	good := NewService(backing)
	require.NoError(t, good.Save(ctx, want, key, salt))

	bad := NewService(&failingStore{Store: backing})
	err := bad.Save(ctx, append(want, models.Credential{ID: "c3", URL: "https://x.test", Username: "v", Password: "w"}), key, salt)
	require.ErrorIs(t, err, common.ErrStorage)

	// The previously stored state is unaffected by the failed save.
	got, err := good.Load(ctx, key)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestService_ProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemoryStore())

	_, err := s.LoadProfile(ctx)
	require.ErrorIs(t, err, common.ErrorNotFound)

	want := &models.UserProfile{
		AccountID:         "acct-1",
		KeyDerivationSalt: "c2FsdA==",
		Verifier:          "dmVyaWZpZXI=",
		CreatedAt:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, s.SaveProfile(ctx, want))

	got, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestService_SaveProfileRejectsIncomplete(t *testing.T) {
	s := NewService(storage.NewInMemoryStore())
	err := s.SaveProfile(context.Background(), &models.UserProfile{AccountID: "acct-1"})
	require.ErrorIs(t, err, common.ErrValidation)
}
