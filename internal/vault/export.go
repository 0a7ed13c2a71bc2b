package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/credvault/credvault/internal/codec"
	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
	"github.com/credvault/credvault/internal/mnemonic"
	"github.com/credvault/credvault/internal/models"
)

const (
	// ExportType is the discriminator stamped into export documents.
	// Importers reject any file whose type field differs.
	ExportType = "credvault-export"

	// MaxImportSize caps import files at 10MB, checked before any parse.
	MaxImportSize = 10 << 20
)

// ExportDocument wraps an encrypted blob for transfer between vaults. The
// data field stays opaque until the import validation chain has passed.
type ExportDocument struct {
	Type       string    `json:"type"`
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Data       string    `json:"data"`
}

// ExportToFile wraps blob in a typed export document and writes it to
// filename. Purely a boundary operation: the blob is already encrypted.
func (s *Service) ExportToFile(ctx context.Context, filename, blob string) error {
	doc := ExportDocument{
		Type:       ExportType,
		Version:    codec.FormatVersion,
		ExportedAt: s.now().UTC(),
		Data:       blob,
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	if err := os.WriteFile(filename, b, 0o600); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	if s.logger != nil {
		s.logger.Info(ctx, "vault exported", "file", filename)
	}
	return nil
}

// ReencryptForPhrase loads the vault with the current master key and
// re-encrypts it under a key derived from the recovery phrase, producing a
// blob suitable for export. The envelope's salt is left empty: an empty
// salt marks a phrase-encrypted blob on import.
func (s *Service) ReencryptForPhrase(ctx context.Context, key []byte, phrase []string) (string, error) {
	list, err := s.Load(ctx, key)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", err
	}

	phraseKey, err := mnemonic.DeriveKey(phrase)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(phraseKey)

	plaintext, err := codec.MarshalCredentials(list)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := cryptox.Encrypt([]byte(plaintext), phraseKey)
	if err != nil {
		return "", err
	}

	return codec.MarshalEnvelope(&codec.Envelope{Ciphertext: ciphertext, Nonce: nonce})
}

// ImportFromFile validates an export file and returns the embedded data
// field. The checks run in order (extension, size, JSON shape, type
// discriminator) and the first failure rejects the file with
// common.ErrImport; the data is never decrypted here.
func (s *Service) ImportFromFile(filename string) (string, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".json" {
		return "", fmt.Errorf("%w: expected a .json file", common.ErrImport)
	}

	info, err := os.Stat(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrImport, err)
	}
	if info.Size() > MaxImportSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", common.ErrImport, MaxImportSize)
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrImport, err)
	}

	var doc ExportDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return "", fmt.Errorf("%w: not a valid export document", common.ErrImport)
	}
	if doc.Type != ExportType {
		return "", fmt.Errorf("%w: unrecognized export type %q", common.ErrImport, doc.Type)
	}
	if doc.Data == "" {
		return "", fmt.Errorf("%w: export document has no data", common.ErrImport)
	}

	return doc.Data, nil
}

// DecryptImport opens an imported blob with the supplied secret. A blob
// carrying a salt was encrypted under a password-derived key; an empty salt
// marks a phrase-derived key with the fixed salt.
func DecryptImport(blob, secret string) ([]models.Credential, error) {
	env, err := codec.UnmarshalEnvelope(blob)
	if err != nil {
		return nil, err
	}

	var key []byte
	if len(env.Salt) > 0 {
		key, err = cryptox.DerivePasswordKey([]byte(secret), env.Salt)
	} else {
		key, err = mnemonic.DeriveKey(mnemonic.Split(secret))
	}
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.Decrypt(env.Ciphertext, env.Nonce, key)
	if err != nil {
		return nil, err
	}
	return codec.UnmarshalCredentials(string(plaintext))
}

// ImportAndMerge runs the full import path: decrypt the imported blob with
// its secret, merge it into the current collection, and persist the result
// under the vault's own master key. Returns the merged collection.
func (s *Service) ImportAndMerge(ctx context.Context, blob, secret string, key, salt []byte) ([]models.Credential, error) {
	imported, err := DecryptImport(blob, secret)
	if err != nil {
		return nil, err
	}

	existing, err := s.Load(ctx, key)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	merged := s.MergeCredentials(existing, imported)
	if err := s.Save(ctx, merged, key, salt); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info(ctx, "import merged", "existing", len(existing), "imported", len(imported), "merged", len(merged))
	}
	return merged, nil
}
