package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
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

// newTokenServer returns an httptest server acting as the launchpad token
// endpoint, and an Exchange pointed at it.
func newTokenServer(t *testing.T, handler http.HandlerFunc) *Exchange {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e := NewExchange("client-id", "client-secret", "http://localhost:8000")
	e.conf.Endpoint.TokenURL = srv.URL
	return e
}

func TestExchangeCode_Success(t *testing.T) {
	e := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "web_server", r.Form.Get("type"))
		assert.Equal(t, "client-id", r.Form.Get("client_id"))
		assert.Equal(t, "client-secret", r.Form.Get("client_secret"))
		assert.Equal(t, "the-code", r.Form.Get("code"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})

	before := time.Now()
	rec, err := e.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)

	assert.Equal(t, "access-1", rec.AccessToken)
	assert.Equal(t, "refresh-1", rec.RefreshToken)
	assert.Equal(t, "Bearer", rec.TokenType)

	// expires_at is recomputed from now + expires_in at exchange time.
	wantExpiry := before.Add(time.Hour).Unix()
	assert.InDelta(t, wantExpiry, rec.ExpiresAt, 5)
	assert.InDelta(t, before.Unix(), rec.ObtainedAt, 5)
}

func TestExchangeCode_ErrorCarriesStatusAndBody(t *testing.T) {
	e := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := e.ExchangeCode(context.Background(), "used-code")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "invalid_grant")
	assert.True(t, authErr.Terminal())
}

func TestRefresh_RotatesRefreshToken(t *testing.T) {
	e := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-2",
			"refresh_token": "new-refresh",
			"expires_in":    7200,
		})
	})

	rec, err := e.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "access-2", rec.AccessToken)
	assert.Equal(t, "new-refresh", rec.RefreshToken)
}

func TestRefresh_PreservesRefreshTokenWhenOmitted(t *testing.T) {
	e := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-3",
			"expires_in":   7200,
		})
	})

	rec, err := e.Refresh(context.Background(), "stable-refresh")
	require.NoError(t, err)
	assert.Equal(t, "stable-refresh", rec.RefreshToken)
}

func TestRefresh_DefaultTTLWhenExpiresInMissing(t *testing.T) {
	e := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-4",
		})
	})

	rec, err := e.Refresh(context.Background(), "refresh")
	require.NoError(t, err)
	wantExpiry := time.Now().Add(defaultTokenTTL).Unix()
	assert.InDelta(t, wantExpiry, rec.ExpiresAt, 5)
}

func TestRefresh_MissingAccessToken(t *testing.T) {
	e := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"expires_in": 100})
	})

	_, err := e.Refresh(context.Background(), "refresh")
	assert.ErrorContains(t, err, "missing access_token")
}

func TestAuthError_Terminal(t *testing.T) {
	tests := []struct {
		status   int
		terminal bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusUnauthorized, true},
		{http.StatusForbidden, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}

	for _, tc := range tests {
		err := &AuthError{StatusCode: tc.status}
		assert.Equal(t, tc.terminal, err.Terminal(), "status %d", tc.status)
	}
}

func TestAuthCodeURL(t *testing.T) {
	e := NewExchange("client-id", "secret", "http://localhost:8000")
	u := e.AuthCodeURL("state-123")

	assert.Contains(t, u, "https://launchpad.37signals.com/authorization/new")
	assert.Contains(t, u, "type=web_server")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "client_id=client-id")
}
