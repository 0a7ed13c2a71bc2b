// Package models defines the credential and profile types stored in a vault.
package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/credvault/credvault/internal/common"
)

// Credential is a single saved login. All four identifying fields must be
// non-empty after validation; ID is unique within a vault.
type Credential struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the structural invariant. It returns common.ErrValidation
// naming the missing field; the password value itself is never echoed.
func (c *Credential) Validate() error {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return fmt.Errorf("%w: credential is missing id", common.ErrValidation)
	case strings.TrimSpace(c.URL) == "":
		return fmt.Errorf("%w: credential %s is missing url", common.ErrValidation, c.ID)
	case strings.TrimSpace(c.Username) == "":
		return fmt.Errorf("%w: credential %s is missing username", common.ErrValidation, c.ID)
	case c.Password == "":
		return fmt.Errorf("%w: credential %s is missing password", common.ErrValidation, c.ID)
	}
	return nil
}

// LastModified returns the timestamp used for merge comparisons:
// UpdatedAt when set, otherwise CreatedAt.
func (c *Credential) LastModified() time.Time {
	if !c.UpdatedAt.IsZero() {
		return c.UpdatedAt
	}
	return c.CreatedAt
}

// MergeKey identifies a credential for merge purposes. Two records with the
// same origin and username are considered the same logical credential.
func (c *Credential) MergeKey() string {
	return NormalizeOrigin(c.URL) + "\x00" + c.Username
}

// NormalizeOrigin reduces a URL to its scheme://host origin, lower-cased.
// Inputs that do not parse (or carry no host) are returned trimmed and
// lower-cased so the caller still gets a stable key.
func NormalizeOrigin(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.ToLower(trimmed)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}
