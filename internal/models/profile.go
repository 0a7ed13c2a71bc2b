package models

import (
	"fmt"
	"time"

	"github.com/credvault/credvault/internal/common"
)

// UserProfile is the per-vault account record persisted separately from the
// encrypted blob. It carries no secret material: the salt is public by
// design, and the verifier is a non-invertible fingerprint of the master key.
type UserProfile struct {
	AccountID         string    `json:"accountId"`
	KeyDerivationSalt string    `json:"keyDerivationSalt"` // base64
	Verifier          string    `json:"verifier,omitempty"` // base64
	CreatedAt         time.Time `json:"createdAt"`
}

// Validate checks the fields required to derive a key for this profile.
func (p *UserProfile) Validate() error {
	if p.AccountID == "" {
		return fmt.Errorf("%w: profile is missing accountId", common.ErrValidation)
	}
	if p.KeyDerivationSalt == "" {
		return fmt.Errorf("%w: profile is missing keyDerivationSalt", common.ErrValidation)
	}
	return nil
}
