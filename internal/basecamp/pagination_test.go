package basecamp

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedHandler serves /items.json in pages of two, linking each page to the
// next with an RFC 5988 Link header.
func pagedHandler(total int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/items.json", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		const perPage = 2

		start := (page - 1) * perPage
		end := start + perPage
		if end > total {
			end = total
		}

		if end < total {
			next := fmt.Sprintf("http://%s/items.json?page=%d", r.Host, page+1)
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		}

		body := "["
		for i := start; i < end; i++ {
			if i > start {
				body += ","
			}
			body += fmt.Sprintf(`{"id":%d}`, i+1)
		}
		w.Write([]byte(body + "]"))
	})
	return mux
}

func TestFetchAll_ConcatenatesPagesInOrder(t *testing.T) {
	c, _ := newTestClient(t, pagedHandler(7))

	var items []Item
	require.NoError(t, c.FetchAllInto(context.Background(), "items.json", nil, &items))
	require.Len(t, items, 7)
	for i, item := range items {
		assert.Equal(t, int64(i+1), ItemID(item), "items must keep server order")
	}
}

func TestFetchAll_SinglePageWithoutLinkHeader(t *testing.T) {
	c, _ := newTestClient(t, pagedHandler(2))

	items, err := c.FetchAll(context.Background(), "items.json", nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFetchAll_NonTerminatingChainFailsAtPageCap(t *testing.T) {
	pages := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		// Every page points to a fresh next URL, forever.
		next := fmt.Sprintf("http://%s/items.json?page=%d", r.Host, pages+1)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		fmt.Fprintf(w, `[{"id":%d}]`, pages)
	}))

	_, err := c.FetchAll(context.Background(), "items.json", nil)
	var pageErr *PaginationError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, maxPages, pages, "the fetcher must stop at exactly the page cap")
}

func TestFetchAll_CycleDetected(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server keeps pointing back at page 1.
		next := fmt.Sprintf("http://%s/items.json", r.Host)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		w.Write([]byte(`[{"id":1}]`))
	}))

	_, err := c.FetchAll(context.Background(), "items.json", nil)
	var pageErr *PaginationError
	require.ErrorAs(t, err, &pageErr)
	assert.Contains(t, pageErr.Reason, "cycle")
}

func TestFetchAll_MidChainFailureReturnsNothing(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		next := fmt.Sprintf("http://%s/items.json?page=2", r.Host)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		w.Write([]byte(`[{"id":1},{"id":2}]`))
	}))

	items, err := c.FetchAll(context.Background(), "items.json", nil)
	require.Error(t, err)
	assert.Nil(t, items, "a partial collection must never be returned")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestFetchAll_RateLimitRetriedHonoringRetryAfter(t *testing.T) {
	attempts := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"id":1}]`))
	})

	var slept []time.Duration
	c, _ := newTestClient(t, handler, withSleeper(func(d time.Duration) {
		slept = append(slept, d)
	}))

	items, err := c.FetchAll(context.Background(), "items.json", nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, attempts, "exactly one retry after the 429")
	require.Len(t, slept, 1)
	assert.Equal(t, 3*time.Second, slept[0], "the Retry-After hint must be honored")
}

func TestFetchAll_RateLimitExhaustion(t *testing.T) {
	attempts := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.FetchAll(context.Background(), "items.json", nil)
	var rateErr *RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, maxRateLimitRetries+1, attempts)
}

func TestParseNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "next only",
			header: `<https://3.basecampapi.com/999/buckets/1/todos.json?page=2>; rel="next"`,
			want:   "https://3.basecampapi.com/999/buckets/1/todos.json?page=2",
		},
		{
			name:   "multiple relations",
			header: `<https://x/first>; rel="first", <https://x/next>; rel="next", <https://x/last>; rel="last"`,
			want:   "https://x/next",
		},
		{name: "no next", header: `<https://x/prev>; rel="prev"`, want: ""},
		{name: "empty", header: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseNextLink(tc.header))
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseRetryAfter("5"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("soon"))
	assert.Zero(t, parseRetryAfter("-1"))
}
