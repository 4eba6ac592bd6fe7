package auth

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"basecamp-mcp/internal/credentials"
	"basecamp-mcp/pkg/logging"
)

// State represents the credential lifecycle state.
type State int

const (
	// StateNoCredential means no credential has been loaded or stored yet.
	StateNoCredential State = iota

	// StateValid means the current credential is usable for API calls.
	StateValid

	// StateRefreshPending means the credential is expired or expiring and a
	// refresh is needed (or in flight).
	StateRefreshPending

	// StateInvalid means the refresh token was rejected; only a new browser
	// authorization can recover.
	StateInvalid
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateNoCredential:
		return "no_credential"
	case StateValid:
		return "valid"
	case StateRefreshPending:
		return "refresh_pending"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// DefaultRefreshMargin is how long before expiry a credential is refreshed
// preemptively, so a token never expires mid-call.
const DefaultRefreshMargin = 5 * time.Minute

// Refresher exchanges a refresh token for a new credential record.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*credentials.Record, error)
}

// Manager owns the credential record exclusively. Every component that needs
// an access token goes through EnsureValid; nothing else reads or writes the
// stored record while the manager is running.
//
// Concurrent callers that find an expired credential share a single refresh
// via singleflight: refresh tokens may be single-use, and two refreshes
// racing against the same stale token would invalidate the session.
type Manager struct {
	store     *credentials.Store
	refresher Refresher
	margin    time.Duration

	mu      sync.RWMutex
	state   State
	current *credentials.Record
	lastErr error

	group singleflight.Group

	watcher     *fsnotify.Watcher
	watcherOnce sync.Once
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRefreshMargin overrides the preemptive-refresh threshold.
func WithRefreshMargin(margin time.Duration) ManagerOption {
	return func(m *Manager) { m.margin = margin }
}

// NewManager creates an auth manager over the given store and refresher.
func NewManager(store *credentials.Store, refresher Refresher, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:     store,
		refresher: refresher,
		margin:    DefaultRefreshMargin,
		state:     StateNoCredential,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EnsureValid returns an access token that is valid for at least the refresh
// margin, refreshing first if necessary. All concurrent callers observing an
// expired credential share one refresh and receive its outcome.
//
// Returns ErrAuthenticationRequired (possibly wrapping an AuthError) when no
// credential exists or the refresh token was rejected.
func (m *Manager) EnsureValid(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Fast path: current credential is valid and not close to expiry.
	m.mu.RLock()
	if m.state == StateValid && m.current != nil && !m.current.ExpiresWithin(m.margin) {
		token := m.current.AccessToken
		m.mu.RUnlock()
		return token, nil
	}
	if m.state == StateInvalid {
		err := m.lastErr
		m.mu.RUnlock()
		return "", err
	}
	m.mu.RUnlock()

	// Slow path: share one refresh across all concurrent callers.
	result, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// refresh loads, validates, and if necessary refreshes the credential.
// Runs inside the singleflight group: at most one instance at a time.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	m.mu.Lock()

	// Re-check: another flight may have completed between the caller's fast
	// path and entering the group.
	if m.state == StateValid && m.current != nil && !m.current.ExpiresWithin(m.margin) {
		token := m.current.AccessToken
		m.mu.Unlock()
		return token, nil
	}
	if m.state == StateInvalid {
		err := m.lastErr
		m.mu.Unlock()
		return "", err
	}

	if m.current == nil {
		rec, err := m.store.Load()
		if err != nil {
			if errors.Is(err, credentials.ErrNotFound) {
				m.state = StateNoCredential
				m.mu.Unlock()
				return "", ErrAuthenticationRequired
			}
			m.mu.Unlock()
			return "", fmt.Errorf("failed to load credential: %w", err)
		}
		m.current = rec
	}

	if !m.current.ExpiresWithin(m.margin) {
		m.state = StateValid
		token := m.current.AccessToken
		m.mu.Unlock()
		return token, nil
	}

	if m.current.RefreshToken == "" {
		m.state = StateInvalid
		m.lastErr = fmt.Errorf("%w: credential expired and no refresh token stored", ErrAuthenticationRequired)
		err := m.lastErr
		m.mu.Unlock()
		return "", err
	}

	m.state = StateRefreshPending
	refreshToken := m.current.RefreshToken
	m.mu.Unlock()

	// Cancellation never triggers a refresh against a possibly single-use
	// refresh token.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	logging.Debug("Auth", "Access token expiring, refreshing")
	rec, err := m.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) && authErr.Terminal() {
			m.mu.Lock()
			m.state = StateInvalid
			m.lastErr = fmt.Errorf("%w: refresh rejected: %w", ErrAuthenticationRequired, err)
			err = m.lastErr
			m.mu.Unlock()
			logging.Warn("Auth", "Refresh token rejected by token endpoint (status %d); re-authorization required", authErr.StatusCode)
			return "", err
		}
		// Transient: the lease is released, not poisoned. State stays
		// RefreshPending so a later caller retries.
		logging.Warn("Auth", "Transient refresh failure: %v", err)
		return "", fmt.Errorf("token refresh failed: %w", err)
	}

	// Persist before releasing any waiter: state after EnsureValid returns is
	// always durable.
	if err := m.store.Save(rec); err != nil {
		return "", fmt.Errorf("failed to persist refreshed credential: %w", err)
	}

	m.mu.Lock()
	m.current = rec
	m.state = StateValid
	m.lastErr = nil
	token := rec.AccessToken
	m.mu.Unlock()

	return token, nil
}

// Reload re-reads the stored credential, lifting a sticky Invalid state when
// an external authorization (auth login in another process) replaced the
// record.
func (m *Manager) Reload() {
	rec, err := m.store.Load()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			m.current = nil
			m.state = StateNoCredential
		}
		return
	}

	m.current = rec
	m.lastErr = nil
	if rec.ExpiresWithin(m.margin) {
		m.state = StateRefreshPending
	} else {
		m.state = StateValid
	}
	logging.Info("Auth", "Credential reloaded from store (state: %s)", m.state)
}

// Status returns the current state and a copy of the credential's expiry
// metadata for display. The access token itself is not exposed.
func (m *Manager) Status() (State, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var expiry time.Time
	if m.current != nil {
		expiry = m.current.Expiry()
	}
	return m.state, expiry
}

// StartWatcher watches the credential file for out-of-band rewrites and
// reloads on change. The watch is on the parent directory because the atomic
// save replaces the file by rename.
func (m *Manager) StartWatcher() error {
	var startErr error
	m.watcherOnce.Do(func() {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			startErr = fmt.Errorf("failed to create credential watcher: %w", err)
			return
		}
		if err := watcher.Add(filepath.Dir(m.store.Path())); err != nil {
			watcher.Close()
			startErr = fmt.Errorf("failed to watch credential directory: %w", err)
			return
		}
		m.watcher = watcher

		base := filepath.Base(m.store.Path())
		go func() {
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if filepath.Base(event.Name) != base {
						continue
					}
					if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
						m.Reload()
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					logging.Warn("Auth", "Credential watcher error: %v", err)
				}
			}
		}()
	})
	return startErr
}

// Close stops the credential watcher if one is running.
func (m *Manager) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
