package credentials

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basecamp-mcp/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitDiscard()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return store
}

func testRecord() *Record {
	now := time.Now().Unix()
	return &Record{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		TokenType:    "Bearer",
		Scope:        "read write",
		ExpiresAt:    now + 1209600,
		ObtainedAt:   now,
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	rec := testRecord()

	require.NoError(t, store.Save(rec))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestSave_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file mode checks are not meaningful on windows")
	}
	store := newTestStore(t)
	require.NoError(t, store.Save(testRecord()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSave_InterruptedWriteLeavesPriorRecord(t *testing.T) {
	store := newTestStore(t)
	prior := testRecord()
	require.NoError(t, store.Save(prior))

	// Simulate a crash mid-write: a truncated temporary file exists in the
	// directory but was never renamed over the credential file.
	stray := filepath.Join(filepath.Dir(store.Path()), ".credentials-crashed.tmp")
	require.NoError(t, os.WriteFile(stray, []byte(`{"access_token":"par`), 0600))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, prior, loaded)
}

func TestSave_Concurrent_NoInterleaving(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := testRecord()
			rec.AccessToken = "token-" + string(rune('a'+i))
			rec.RefreshToken = "refresh-" + string(rune('a'+i))
			_ = store.Save(rec)
		}(i)
	}
	wg.Wait()

	// Whichever writer won, the record must be internally consistent:
	// access and refresh tokens carry the same suffix.
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, loaded.AccessToken[len("token-"):], loaded.RefreshToken[len("refresh-"):])
}

func TestLoad_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0700))
	require.NoError(t, os.WriteFile(store.Path(), []byte("not json"), 0600))

	_, err := store.Load()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(testRecord()))
	require.NoError(t, store.Delete())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete())
}

func TestRecord_ExpiresWithin(t *testing.T) {
	tests := []struct {
		name     string
		expires  int64
		margin   time.Duration
		expected bool
	}{
		{"already expired", time.Now().Add(-time.Hour).Unix(), 0, true},
		{"expires inside margin", time.Now().Add(2 * time.Minute).Unix(), 5 * time.Minute, true},
		{"expires outside margin", time.Now().Add(time.Hour).Unix(), 5 * time.Minute, false},
		{"zero expiry treated as expired", 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &Record{ExpiresAt: tc.expires}
			assert.Equal(t, tc.expected, rec.ExpiresWithin(tc.margin))
		})
	}
}

func TestRecord_JSONFields(t *testing.T) {
	data, err := json.Marshal(testRecord())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"access_token", "refresh_token", "token_type", "scope", "expires_at", "obtained_at"} {
		assert.Contains(t, fields, key)
	}
}
