// Package common defines shared sentinel errors and small helpers used
// across the credvault packages. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Crypto errors. The decryption message deliberately does not
	// distinguish a wrong key from corrupted ciphertext.
	ErrKeyDerivation = errors.New("key derivation failed")
	ErrDecryption    = errors.New("incorrect password or corrupted data")

	// Structural errors in serialized data.
	ErrValidation = errors.New("validation error")

	// Persistence backend failures.
	ErrStorage = errors.New("storage error")

	// Auth errors.
	ErrAuthentication = errors.New("authentication failed")
	ErrInvalidToken   = errors.New("invalid token")

	// Import/export errors.
	ErrImport = errors.New("import rejected")
)
