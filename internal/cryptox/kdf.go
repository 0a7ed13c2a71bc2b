// Package cryptox implements the cryptographic core of credvault:
// PBKDF2-based key derivation and AES-GCM authenticated encryption.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/credvault/credvault/internal/common"
)

const (
	// KeySize is the size of derived AES-256 keys in bytes.
	KeySize = 32

	// SaltSize is the size of random salts for password-derived keys.
	SaltSize = 32

	// DefaultIterations is the PBKDF2 iteration count fixed at construction.
	DefaultIterations = 100_000

	// MinIterations is the lowest iteration count the deriver accepts.
	MinIterations = 100_000
)

// PhraseSalt is the fixed, publicly known salt used when deriving a key
// from a recovery phrase. The phrase itself occupies one of 2048^16
// possibilities, so the salt's usual uniqueness role is already covered.
// Password-derived keys must keep using a random per-vault salt.
const PhraseSalt = "credvault/recovery-phrase/v1"

// DeriveKey stretches a secret into a 256-bit key using PBKDF2-HMAC-SHA256.
// Same (secret, salt, iterations) always yields byte-identical key material.
// Returns common.ErrKeyDerivation for an empty secret or an iteration count
// below MinIterations.
func DeriveKey(secret, salt []byte, iterations int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty secret", common.ErrKeyDerivation)
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", common.ErrKeyDerivation)
	}
	if iterations < MinIterations {
		return nil, fmt.Errorf("%w: iteration count %d below minimum %d",
			common.ErrKeyDerivation, iterations, MinIterations)
	}
	return pbkdf2.Key(secret, salt, iterations, KeySize, sha256.New), nil
}

// DerivePasswordKey derives a master key from a password and a random
// per-vault salt using the default iteration count.
func DerivePasswordKey(password, salt []byte) ([]byte, error) {
	return DeriveKey(password, salt, DefaultIterations)
}

// MakeVerifier returns a non-invertible fingerprint of the master key,
// suitable for storage next to the salt for offline verification.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// VerifyKey compares a candidate master key against a stored verifier in
// constant time.
func VerifyKey(masterKey, verifier []byte) bool {
	candidate := MakeVerifier(masterKey)
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
