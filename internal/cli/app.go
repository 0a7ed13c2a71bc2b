// Package cli implements the interactive credvault shell: first-run setup,
// unlock/lock, credential commands, and the export/import surface. Every
// protected command routes through the session guard.
package cli

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/config"
	"github.com/credvault/credvault/internal/cryptox"
	"github.com/credvault/credvault/internal/logging"
	"github.com/credvault/credvault/internal/models"
	"github.com/credvault/credvault/internal/session"
	"github.com/credvault/credvault/internal/storage"
	"github.com/credvault/credvault/internal/vault"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	config  *config.Config
	store   storage.Store
	vault   *vault.Service
	logger  logging.Logger
	guard   *session.Guard
	profile *models.UserProfile

	masterKey []byte
	salt      []byte
	reader    *bufio.Reader
}

// NewApp wires the application against an already-constructed storage
// backend. If a profile exists, the session guard is armed for it and any
// residual persisted session state is discarded before anything could
// trust it.
func NewApp(ctx context.Context, c *config.Config, store storage.Store, logger logging.Logger) (*App, error) {
	a := &App{
		config: c,
		store:  store,
		vault:  vault.NewService(store, vault.WithLogger(logger)),
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
	}

	profile, err := a.vault.LoadProfile(ctx)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	if err == nil {
		if err := a.armGuard(ctx, profile); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// armGuard builds the session guard for the given profile and discards any
// session record a previous process left behind.
func (a *App) armGuard(ctx context.Context, profile *models.UserProfile) error {
	verifier, err := base64.StdEncoding.DecodeString(profile.Verifier)
	if err != nil {
		return fmt.Errorf("%w: malformed verifier", common.ErrValidation)
	}

	provider := session.NewVerifierProvider(profile.AccountID, verifier)
	a.guard = session.NewGuard(provider, a.config.SessionDuration,
		session.WithLogger(a.logger),
		session.WithResidualStore(a.store),
		session.WithExpiryCallback(a.onSessionExpired),
	)
	a.profile = profile

	return a.guard.DiscardResidualState(ctx)
}

func (a *App) onSessionExpired() {
	a.forgetKey()
	fmt.Println("Session expired, vault locked.")
}

func (a *App) forgetKey() {
	common.WipeByteArray(a.masterKey)
	a.masterKey = nil
}

func (a *App) isInitialized() bool {
	return a.profile != nil
}

func (a *App) isLoggedIn() bool {
	return a.guard != nil && a.guard.IsAuthenticated()
}

// requireSession is the gate every protected command passes through. It
// checks the session and signals activity, sliding the expiry window.
func (a *App) requireSession() error {
	if !a.isLoggedIn() {
		return fmt.Errorf("%w: vault is locked, run 'unlock' first", common.ErrAuthentication)
	}
	a.guard.Activity()
	return nil
}

// deriveKey stretches a password with the profile's salt.
func (a *App) deriveKey(password []byte) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(a.profile.KeyDerivationSalt)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed key derivation salt", common.ErrValidation)
	}
	key, err := cryptox.DeriveKey(password, salt, a.config.Iterations)
	if err != nil {
		return nil, err
	}
	a.salt = salt
	return key, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Println("credvault (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	a.Close(ctx)
}

// Close locks the vault and wipes key material.
func (a *App) Close(ctx context.Context) {
	if a.guard != nil {
		_ = a.guard.Logout(ctx)
	}
	a.forgetKey()
}

func (a *App) status() string {
	switch {
	case !a.isInitialized():
		return "not initialized"
	case a.isLoggedIn():
		return a.guard.AccountID()
	default:
		return "locked"
	}
}
