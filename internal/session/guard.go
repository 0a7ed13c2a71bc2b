package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/credvault/credvault/internal/logging"
	"github.com/credvault/credvault/internal/storage"
)

// sessionStateKey is where older builds persisted session state. The
// strict guard never reads it back as trusted data; see DiscardResidualState.
const sessionStateKey = "session"

// Guard is the timed authentication state machine. It is either logged out
// or logged in until expiresAt; every activity signal slides the expiry
// forward. Expiry is enforced lazily on every check and eagerly by a
// single owned timer, and fires exactly once per session.
type Guard struct {
	mu       sync.Mutex
	provider ProofProvider
	duration time.Duration
	logger   logging.Logger
	store    storage.Store
	now      func() time.Time

	authenticated bool
	accountID     string
	establishedAt time.Time
	expiresAt     time.Time
	timer         *time.Timer
	onExpire      func()
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// WithExpiryCallback registers a callback fired once when a session
// expires (not on explicit logout).
func WithExpiryCallback(fn func()) Option {
	return func(g *Guard) { g.onExpire = fn }
}

// WithResidualStore points the guard at the persistence backend so it can
// discard any session record a previous process left behind.
func WithResidualStore(s storage.Store) Option {
	return func(g *Guard) { g.store = s }
}

// NewGuard constructs a logged-out guard with the given inactivity window.
func NewGuard(provider ProofProvider, duration time.Duration, opts ...Option) *Guard {
	g := &Guard{
		provider: provider,
		duration: duration,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DiscardResidualState removes any persisted session record before anything
// can treat it as trusted. Call it at process start; session state must
// never survive a restart. The record's contents are never inspected beyond
// logging that one existed.
func (g *Guard) DiscardResidualState(ctx context.Context) error {
	if g.store == nil {
		return nil
	}

	if _, err := g.store.Get(ctx, sessionStateKey); err == nil {
		if g.logger != nil {
			g.logger.Warn(ctx, "discarding persisted session state from a previous run")
		}
	}
	if err := g.store.Remove(ctx, sessionStateKey); err != nil {
		return fmt.Errorf("failed to discard persisted session state: %w", err)
	}
	return nil
}

// CreateSession verifies the secret proof and, on success, transitions to
// LoggedIn with a fresh expiry window. A rejected proof leaves the guard
// logged out and returns common.ErrAuthentication.
func (g *Guard) CreateSession(ctx context.Context, proof []byte) error {
	accountID, err := g.provider.Verify(ctx, proof)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.authenticated = true
	g.accountID = accountID
	g.establishedAt = now
	g.expiresAt = now.Add(g.duration)
	g.armTimerLocked()

	if g.logger != nil {
		g.logger.Info(ctx, "session established", "account", accountID, "expires_at", g.expiresAt)
	}
	return nil
}

// Activity slides the expiry window forward. A signal arriving after the
// window has already elapsed expires the session instead of reviving it.
func (g *Guard) Activity() {
	g.mu.Lock()
	fired := false
	if g.authenticated {
		if !g.now().Before(g.expiresAt) {
			fired = g.expireLocked()
		} else {
			g.expiresAt = g.now().Add(g.duration)
			g.armTimerLocked()
		}
	}
	g.mu.Unlock()

	if fired && g.onExpire != nil {
		g.onExpire()
	}
}

// IsAuthenticated reports the current state. It never fails: the answer is
// derived from state plus an expiry comparison, expiring lazily if needed.
func (g *Guard) IsAuthenticated() bool {
	g.mu.Lock()
	fired := false
	ok := g.authenticated
	if ok && !g.now().Before(g.expiresAt) {
		fired = g.expireLocked()
		ok = false
	}
	g.mu.Unlock()

	if fired && g.onExpire != nil {
		g.onExpire()
	}
	return ok
}

// AccountID returns the authenticated account, or "" when logged out.
func (g *Guard) AccountID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.authenticated {
		return ""
	}
	return g.accountID
}

// ExpiresAt returns the current expiry, or the zero time when logged out.
func (g *Guard) ExpiresAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.authenticated {
		return time.Time{}
	}
	return g.expiresAt
}

// Logout clears local session state unconditionally. If the proof provider
// supports upstream revocation, that is attempted first, but its failure
// only produces a warning; local logout cannot fail.
func (g *Guard) Logout(ctx context.Context) error {
	if revoker, ok := g.provider.(Revoker); ok {
		if err := revoker.Revoke(ctx); err != nil && g.logger != nil {
			g.logger.Warn(ctx, "upstream session revocation failed", "error", err)
		}
	}

	g.mu.Lock()
	g.clearLocked()
	g.mu.Unlock()

	if g.logger != nil {
		g.logger.Info(ctx, "session closed")
	}
	return nil
}

// expireLocked transitions to LoggedOut exactly once per expiry. Returns
// true when this call performed the transition.
func (g *Guard) expireLocked() bool {
	if !g.authenticated {
		return false
	}
	g.clearLocked()
	return true
}

func (g *Guard) clearLocked() {
	g.authenticated = false
	g.accountID = ""
	g.establishedAt = time.Time{}
	g.expiresAt = time.Time{}
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// armTimerLocked installs the eager-expiry timer, cancelling the previous
// handle first so the guard never holds two live timers.
func (g *Guard) armTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.duration, g.checkExpiry)
}

// checkExpiry runs on the timer. The lazy check in IsAuthenticated does
// the actual work, so lazy and eager paths share the once-only semantics.
func (g *Guard) checkExpiry() {
	g.IsAuthenticated()
}
