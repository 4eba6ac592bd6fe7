package basecamp

import (
	"fmt"
	"time"
)

// APIError is any non-success response from the Basecamp API. The status and
// body are passed through for the caller to interpret; the client does not
// retry because idempotency of the underlying operation is unknown.
type APIError struct {
	StatusCode int
	Body       string

	// RetryAfter is the server's backoff hint on a 429 response, zero when
	// absent.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("basecamp api returned status %d: %s", e.StatusCode, e.Body)
}

// RateLimitedError is returned when a request kept hitting 429 responses
// after the bounded number of retries.
type RateLimitedError struct {
	Attempts int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited by basecamp api after %d attempts", e.Attempts)
}

// PaginationError indicates malformed or non-terminating pagination
// metadata. It is always surfaced, never silently truncated.
type PaginationError struct {
	Pages  int
	Reason string
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("pagination aborted after %d pages: %s", e.Pages, e.Reason)
}
