// Package session implements the timed authentication state machine that
// gates access to the master key, plus the secret-proof providers it
// consumes.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
)

// ProofProvider verifies an opaque secret proof and returns the account it
// belongs to. The guard never interprets the proof's internal structure.
type ProofProvider interface {
	Verify(ctx context.Context, proof []byte) (accountID string, err error)
}

// Revoker is optionally implemented by providers whose upstream session
// can be revoked on logout. Revocation failures never block local logout.
type Revoker interface {
	Revoke(ctx context.Context) error
}

// VerifierProvider accepts a candidate master key as proof and checks it
// against the stored key verifier in constant time. This is the offline
// login path.
type VerifierProvider struct {
	accountID string
	verifier  []byte
}

func NewVerifierProvider(accountID string, verifier []byte) *VerifierProvider {
	return &VerifierProvider{accountID: accountID, verifier: verifier}
}

func (p *VerifierProvider) Verify(ctx context.Context, proof []byte) (string, error) {
	if len(p.verifier) == 0 {
		return "", fmt.Errorf("%w: no verifier on record", common.ErrAuthentication)
	}
	if !cryptox.VerifyKey(proof, p.verifier) {
		return "", common.ErrAuthentication
	}
	return p.accountID, nil
}

// Claims carries the account identifier inside an identity-provider token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string
}

// JWTProvider accepts an HS256 token minted by an external identity layer
// as the secret proof.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret []byte) *JWTProvider {
	return &JWTProvider{secret: secret}
}

// IssueProof mints a token for accountID. Exposed for the identity layer
// and for tests.
func (p *JWTProvider) IssueProof(accountID string, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		AccountID: accountID,
	})
	return token.SignedString(p.secret)
}

func (p *JWTProvider) Verify(ctx context.Context, proof []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(string(proof), claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrAuthentication, common.ErrInvalidToken)
	}
	if !token.Valid || claims.AccountID == "" {
		return "", fmt.Errorf("%w: %w", common.ErrAuthentication, common.ErrInvalidToken)
	}

	return claims.AccountID, nil
}
