package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthenticationRequired indicates that no valid credential exists and no
// refresh is possible. The user must complete the browser authorization flow
// (basecamp-mcp auth login) before API calls can proceed.
var ErrAuthenticationRequired = errors.New("authentication required: run 'basecamp-mcp auth login'")

// AuthError is returned when the token endpoint rejects an exchange or
// refresh request. It carries the HTTP status and the remote error body so
// the caller can distinguish terminal rejections from transient failures.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Terminal reports whether the failure is a definitive rejection of the
// presented token (revoked or expired refresh token, bad client credentials).
// Server-side failures and rate limiting are transient: a later retry with
// the same refresh token may succeed.
func (e *AuthError) Terminal() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return false
	}
	return e.StatusCode >= 400 && e.StatusCode < 500
}
