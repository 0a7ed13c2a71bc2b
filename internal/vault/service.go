// Package vault orchestrates the encrypt-then-persist and load-then-decrypt
// paths of the credential collection against a key-addressed persistence
// backend, plus the export file format and the import/merge protocol.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/codec"
	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
	"github.com/credvault/credvault/internal/logging"
	"github.com/credvault/credvault/internal/models"
	"github.com/credvault/credvault/internal/storage"
)

// Storage keys. The backend is key-addressed with no cross-key transactions,
// so the profile and the encrypted blob are written independently.
const (
	VaultStateKey   = "vault"
	ProfileStateKey = "profile"
)

// Service is the vault store. It never holds key material between calls;
// the caller supplies the master key per operation.
type Service struct {
	store  storage.Store
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the credential ID source, for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save serializes, encrypts, and persists the collection. The salt is the
// one the master key was derived with; pass nil for phrase-derived keys.
// A failed save leaves the caller's collection untouched and surfaces the
// backend failure wrapped in common.ErrStorage.
func (s *Service) Save(ctx context.Context, list []models.Credential, key, salt []byte) error {
	plaintext, err := codec.MarshalCredentials(list)
	if err != nil {
		return err
	}

	ciphertext, nonce, err := cryptox.Encrypt([]byte(plaintext), key)
	if err != nil {
		return err
	}

	blob, err := codec.MarshalEnvelope(&codec.Envelope{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Salt:       salt,
	})
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, VaultStateKey, []byte(blob)); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	if s.logger != nil {
		s.logger.Debug(ctx, "vault saved", "credentials", len(list))
	}
	return nil
}

// Load fetches, decrypts, and deserializes the collection. An absent blob
// returns common.ErrorNotFound; a wrong key returns common.ErrDecryption;
// a structurally malformed blob returns common.ErrValidation.
func (s *Service) Load(ctx context.Context, key []byte) ([]models.Credential, error) {
	blob, err := s.store.Get(ctx, VaultStateKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	return DecryptBlob(string(blob), key)
}

// DecryptBlob opens a serialized envelope with the given master key and
// deserializes the credential collection inside.
func DecryptBlob(blob string, key []byte) ([]models.Credential, error) {
	env, err := codec.UnmarshalEnvelope(blob)
	if err != nil {
		return nil, err
	}

	plaintext, err := cryptox.Decrypt(env.Ciphertext, env.Nonce, key)
	if err != nil {
		return nil, err
	}

	return codec.UnmarshalCredentials(string(plaintext))
}

// EncryptedBlob returns the stored envelope string without decrypting it.
func (s *Service) EncryptedBlob(ctx context.Context) (string, error) {
	blob, err := s.store.Get(ctx, VaultStateKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return string(blob), nil
}

// SaveProfile persists the account record under its own storage key.
func (s *Service) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	b, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	if err := s.store.Put(ctx, ProfileStateKey, b); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return nil
}

// LoadProfile reads the account record. An absent profile returns
// common.ErrorNotFound, which the caller treats as "vault not initialized".
func (s *Service) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	b, err := s.store.Get(ctx, ProfileStateKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(b, &profile); err != nil {
		return nil, fmt.Errorf("%w: malformed profile record", common.ErrValidation)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// NewCredentialID returns a fresh unique credential identifier.
func (s *Service) NewCredentialID() string {
	return s.newID()
}
