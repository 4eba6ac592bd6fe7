package auth

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basecamp-mcp/internal/credentials"
)

// fakeRefresher counts refresh calls and returns a scripted outcome.
type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
	fn    func(refreshToken string) (*credentials.Record, error)
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*credentials.Record, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.fn(refreshToken)
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func freshRecord(token string) *credentials.Record {
	now := time.Now()
	return &credentials.Record{
		AccessToken:  token,
		RefreshToken: "refresh-" + token,
		TokenType:    "Bearer",
		ExpiresAt:    now.Add(time.Hour).Unix(),
		ObtainedAt:   now.Unix(),
	}
}

func expiredRecord(token string) *credentials.Record {
	now := time.Now()
	return &credentials.Record{
		AccessToken:  token,
		RefreshToken: "refresh-" + token,
		TokenType:    "Bearer",
		ExpiresAt:    now.Add(-time.Hour).Unix(),
		ObtainedAt:   now.Add(-2 * time.Hour).Unix(),
	}
}

func newManagerTestStore(t *testing.T) *credentials.Store {
	t.Helper()
	store, err := credentials.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return store
}

func TestEnsureValid_NoCredential(t *testing.T) {
	store := newManagerTestStore(t)
	refresher := &fakeRefresher{fn: func(string) (*credentials.Record, error) {
		t.Fatal("refresh must not be called without a stored credential")
		return nil, nil
	}}
	m := NewManager(store, refresher)

	_, err := m.EnsureValid(context.Background())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestEnsureValid_ValidCredentialNoRefresh(t *testing.T) {
	store := newManagerTestStore(t)
	require.NoError(t, store.Save(freshRecord("fresh")))

	refresher := &fakeRefresher{fn: func(string) (*credentials.Record, error) {
		t.Fatal("refresh must not be called for a valid credential")
		return nil, nil
	}}
	m := NewManager(store, refresher)

	token, err := m.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestEnsureValid_ExpiredCredentialRefreshed(t *testing.T) {
	store := newManagerTestStore(t)
	require.NoError(t, store.Save(expiredRecord("stale")))

	refresher := &fakeRefresher{fn: func(rt string) (*credentials.Record, error) {
		assert.Equal(t, "refresh-stale", rt)
		return freshRecord("renewed"), nil
	}}
	m := NewManager(store, refresher)

	token, err := m.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "renewed", token)
	assert.Equal(t, 1, refresher.callCount())

	// The refreshed record was persisted before EnsureValid returned.
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "renewed", loaded.AccessToken)
	assert.Equal(t, "refresh-renewed", loaded.RefreshToken)
}

func TestEnsureValid_SingleFlight(t *testing.T) {
	store := newManagerTestStore(t)
	require.NoError(t, store.Save(expiredRecord("stale")))

	refresher := &fakeRefresher{
		delay: 50 * time.Millisecond,
		fn: func(string) (*credentials.Record, error) {
			return freshRecord("renewed"), nil
		},
	}
	m := NewManager(store, refresher)

	const callers = 32
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = m.EnsureValid(context.Background())
		}(i)
	}
	wg.Wait()

	// Exactly one refresh reached the token endpoint; every caller observed
	// the same resulting token.
	assert.Equal(t, 1, refresher.callCount())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "renewed", tokens[i])
	}
}

func TestEnsureValid_PreemptiveRefreshWithinMargin(t *testing.T) {
	store := newManagerTestStore(t)
	soon := freshRecord("expiring")
	soon.ExpiresAt = time.Now().Add(time.Minute).Unix() // inside the 5m margin

	require.NoError(t, store.Save(soon))

	refresher := &fakeRefresher{fn: func(string) (*credentials.Record, error) {
		return freshRecord("renewed"), nil
	}}
	m := NewManager(store, refresher)

	token, err := m.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "renewed", token)
	assert.Equal(t, 1, refresher.callCount())
}

func TestEnsureValid_TerminalFailureIsSticky(t *testing.T) {
	store := newManagerTestStore(t)
	require.NoError(t, store.Save(expiredRecord("stale")))

	refresher := &fakeRefresher{fn: func(string) (*credentials.Record, error) {
		return nil, &AuthError{StatusCode: http.StatusUnauthorized, Body: "revoked"}
	}}
	m := NewManager(store, refresher)

	_, err := m.EnsureValid(context.Background())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	// Subsequent callers fail fast without hammering the token endpoint.
	_, err = m.EnsureValid(context.Background())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Equal(t, 1, refresher.callCount())

	state, _ := m.Status()
	assert.Equal(t, StateInvalid, state)
}

func TestEnsureValid_TransientFailureRetriable(t *testing.T) {
	store := newManagerTestStore(t)
	require.NoError(t, store.Save(expiredRecord("stale")))

	attempt := 0
	refresher := &fakeRefresher{fn: func(string) (*credentials.Record, error) {
		attempt++
		if attempt == 1 {
			return nil, errors.New("connection reset by peer")
		}
		return freshRecord("renewed"), nil
	}}
	m := NewManager(store, refresher)

	_, err := m.EnsureValid(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthenticationRequired)

	// The lease was released, not poisoned: the next caller retries.
	token, err := m.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "renewed", token)
	assert.Equal(t, 2, refresher.callCount())
}

func TestEnsureValid_ExpiredNeverHandedOut(t *testing.T) {
	store := newManagerTestStore(t)
	require.NoError(t, store.Save(expiredRecord("stale")))

	refresher := &fakeRefresher{fn: func(string) (*credentials.Record, error) {
		return nil, errors.New("endpoint down")
	}}
	m := NewManager(store, refresher)

	token, err := m.EnsureValid(context.Background())
	require.Error(t, err)
	assert.Empty(t, token)
}

func TestReload_LiftsInvalidState(t *testing.T) {
	store := newManagerTestStore(t)
	require.NoError(t, store.Save(expiredRecord("stale")))

	refresher := &fakeRefresher{fn: func(string) (*credentials.Record, error) {
		return nil, &AuthError{StatusCode: http.StatusUnauthorized}
	}}
	m := NewManager(store, refresher)

	_, err := m.EnsureValid(context.Background())
	require.ErrorIs(t, err, ErrAuthenticationRequired)

	// External authorization rewrote the credential file.
	require.NoError(t, store.Save(freshRecord("reauthorized")))
	m.Reload()

	token, err := m.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "reauthorized", token)
	assert.Equal(t, 1, refresher.callCount())
}

func TestEnsureValid_CancelledContext(t *testing.T) {
	store := newManagerTestStore(t)
	require.NoError(t, store.Save(expiredRecord("stale")))

	refresher := &fakeRefresher{fn: func(string) (*credentials.Record, error) {
		t.Fatal("cancellation must never trigger a refresh")
		return nil, nil
	}}
	m := NewManager(store, refresher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.EnsureValid(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "no_credential", StateNoCredential.String())
	assert.Equal(t, "valid", StateValid.String())
	assert.Equal(t, "refresh_pending", StateRefreshPending.String())
	assert.Equal(t, "invalid", StateInvalid.String())
	assert.Equal(t, "unknown", State(42).String())
}
