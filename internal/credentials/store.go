package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"basecamp-mcp/pkg/logging"
)

// DefaultStorePath is the default credential file location, relative to the
// user's home directory.
const DefaultStorePath = ".config/basecamp-mcp/credentials.json"

// ErrNotFound is returned by Load when no credential has been stored yet.
var ErrNotFound = errors.New("no stored credential")

// Record is the persisted OAuth credential for one Basecamp session.
//
// ExpiresAt is absolute (unix seconds), recomputed from expires_in at the
// moment the token was obtained. Validity decisions belong to the auth
// manager; the store only persists and loads.
type Record struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
	ObtainedAt   int64  `json:"obtained_at"`
}

// Expiry returns the expiration timestamp as a time.Time.
func (r *Record) Expiry() time.Time {
	return time.Unix(r.ExpiresAt, 0)
}

// ExpiresWithin reports whether the record expires within the given margin
// from now. A zero ExpiresAt is treated as already expired: a record without
// a concrete expiry must never be handed to a caller.
func (r *Record) ExpiresWithin(margin time.Duration) bool {
	if r.ExpiresAt == 0 {
		return true
	}
	return time.Now().Add(margin).After(r.Expiry())
}

// Store persists a single credential record on disk.
//
// Saves are atomic (write to a temporary file in the same directory, then
// rename) so a crash or a concurrent reader never observes a half-written
// record. The file is created with 0600 permissions because it contains
// long-lived bearer secrets.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the given file path. An empty path
// resolves to DefaultStorePath under the user's home directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, DefaultStorePath)
	}
	return &Store{path: path}, nil
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored credential record. Returns ErrNotFound when the file
// does not exist.
func (s *Store) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return &rec, nil
}

// Save writes the record atomically. Concurrent saves serialize; the record
// is always replaced as a whole (last writer wins, never field interleaving).
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary credential file: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temporary file on any failure before the rename commits it.
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := tmp.Chmod(0600); err != nil {
		return cleanup(fmt.Errorf("failed to restrict credential file permissions: %w", err))
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write credential file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync credential file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return cleanup(fmt.Errorf("failed to close credential file: %w", err))
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit credential file: %w", err)
	}

	logging.Debug("Auth", "Credential stored (expires: %s, has_refresh_token: %t)",
		rec.Expiry().Format(time.RFC3339), rec.RefreshToken != "")
	return nil
}

// Delete removes the stored credential. Deleting a credential that does not
// exist is not an error.
func (s *Store) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
