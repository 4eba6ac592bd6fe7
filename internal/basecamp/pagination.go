package basecamp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"basecamp-mcp/pkg/logging"
)

// defaultRetryBackoff is used for a 429 page retry when the server sent no
// Retry-After hint.
const defaultRetryBackoff = time.Second

// FetchAll walks a paginated collection endpoint to exhaustion and returns
// the concatenation of every page in server order. Pagination is driven
// purely by the Link rel="next" header; requests after the first follow the
// server-issued URL verbatim.
//
// Any page failure fails the whole fetch. A partial result is never returned:
// callers either get the complete collection or an error.
func (c *Client) FetchAll(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	var items []json.RawMessage

	next := c.absoluteURL(path, query)
	seen := make(map[string]bool)

	for page := 1; next != ""; page++ {
		if page > maxPages {
			return nil, &PaginationError{
				Pages:  maxPages,
				Reason: "page limit exceeded without a terminating Link header",
			}
		}
		if seen[next] {
			return nil, &PaginationError{
				Pages:  page - 1,
				Reason: fmt.Sprintf("pagination cycle detected at %s", next),
			}
		}
		seen[next] = true

		pageItems, link, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		items = append(items, pageItems...)
		next = link
	}

	logging.Debug("Basecamp", "Fetched %d items across paginated collection", len(items))
	return items, nil
}

// FetchAllInto runs FetchAll and unmarshals the combined items into out,
// which must be a pointer to a slice.
func (c *Client) FetchAllInto(ctx context.Context, path string, query url.Values, out any) error {
	items, err := c.FetchAll(ctx, path, query)
	if err != nil {
		return err
	}
	combined, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to combine pages: %w", err)
	}
	if err := json.Unmarshal(combined, out); err != nil {
		return fmt.Errorf("failed to decode collection: %w", err)
	}
	return nil
}

// fetchPage requests one page, retrying a bounded number of times on 429,
// and returns the page items plus the next-page URL (empty when this was the
// last page).
func (c *Client) fetchPage(ctx context.Context, rawURL string) ([]json.RawMessage, string, error) {
	for attempt := 0; attempt <= maxRateLimitRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		resp, err := c.do(ctx, http.MethodGet, rawURL, nil, "")
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
				backoff := apiErr.RetryAfter
				if backoff <= 0 {
					backoff = defaultRetryBackoff
				}
				logging.Warn("Basecamp", "Rate limited, backing off %s (attempt %d/%d)", backoff, attempt+1, maxRateLimitRetries)
				c.sleep(backoff)
				continue
			}
			return nil, "", err
		}

		items, link, err := decodePage(resp)
		if err != nil {
			return nil, "", err
		}
		return items, link, nil
	}

	return nil, "", &RateLimitedError{Attempts: maxRateLimitRetries + 1}
}

func decodePage(resp *http.Response) ([]json.RawMessage, string, error) {
	defer resp.Body.Close()

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, "", fmt.Errorf("failed to decode page: %w", err)
	}
	io.Copy(io.Discard, resp.Body)

	return items, parseNextLink(resp.Header.Get("Link")), nil
}

// parseNextLink extracts the rel="next" URL from an RFC 5988 Link header.
// Returns "" when there is no next page.
func parseNextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		urlPart := strings.Trim(strings.TrimSpace(section[0]), "<>")
		for _, param := range section[1:] {
			if strings.EqualFold(strings.TrimSpace(param), `rel="next"`) {
				return urlPart
			}
		}
	}
	return ""
}
