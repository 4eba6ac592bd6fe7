package basecamp

import (
	"context"
	"errors"
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

// staticToken is a TokenSource handing out a fixed access token.
type staticToken string

func (s staticToken) EnsureValid(ctx context.Context) (string, error) {
	return string(s), nil
}

// failingToken is a TokenSource that always fails.
type failingToken struct{ err error }

func (f failingToken) EnsureValid(ctx context.Context) (string, error) {
	return "", f.err
}

// newTestClient points a client at an httptest server with a zero-cost
// sleeper so retry tests run instantly.
func newTestClient(t *testing.T, handler http.Handler, opts ...ClientOption) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base := []ClientOption{
		WithBaseURL(srv.URL),
		withSleeper(func(time.Duration) {}),
	}
	c := NewClient("999", staticToken("test-token"), append(base, opts...)...)
	return c, srv
}

func TestClient_AttachesAuthAndUserAgent(t *testing.T) {
	var gotAuth, gotUA string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"id":1}`))
	}), WithUserAgent("test-agent (test@example.com)"))

	var out Item
	require.NoError(t, c.Get(context.Background(), "projects/1.json", nil, &out))
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "test-agent (test@example.com)", gotUA)
}

func TestClient_TokenFailureShortCircuits(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	t.Cleanup(srv.Close)

	authErr := errors.New("authentication required")
	c := NewClient("999", failingToken{err: authErr}, WithBaseURL(srv.URL))

	err := c.Get(context.Background(), "projects.json", nil, nil)
	assert.ErrorIs(t, err, authErr)
	assert.Zero(t, requests, "no request may be sent without a token")
}

func TestClient_NonSuccessBecomesAPIError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))

	err := c.Get(context.Background(), "projects/42.json", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "not found")
}

func TestClient_DeleteAcceptsNoContent(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, c.Delete(context.Background(), "buckets/1/webhooks/2.json"))
}

func TestGetTodolists_DiscoversTodosetFromDock(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects/1.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"name":"Launch","dock":[
			{"id":77,"name":"todoset","title":"To-dos","enabled":true},
			{"id":88,"name":"message_board","title":"Message Board","enabled":true}
		]}`))
	})
	mux.HandleFunc("/buckets/1/todosets/77/todolists.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":100,"title":"Prep"},{"id":101,"title":"Ship"}]`))
	})
	c, _ := newTestClient(t, mux)

	lists, err := c.GetTodolists(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Prep", lists[0]["title"])
}

func TestGetTodolists_MissingDockTool(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects/1.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"name":"Chat only","dock":[{"id":5,"name":"chat","enabled":true}]}`))
	})
	c, _ := newTestClient(t, mux)

	_, err := c.GetTodolists(context.Background(), 1)
	assert.ErrorContains(t, err, "no todoset")
}

func TestCardTables_IncludesLegacyKanbanBoards(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects/7.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"dock":[
			{"id":1,"name":"kanban_board","title":"Old board"},
			{"id":2,"name":"card_table","title":"New board"},
			{"id":3,"name":"todoset","title":"To-dos"}
		]}`))
	})
	c, _ := newTestClient(t, mux)

	tables, err := c.CardTables(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, int64(1), tables[0].ID)
	assert.Equal(t, int64(2), tables[1].ID)
}

func TestItemID(t *testing.T) {
	assert.Equal(t, int64(42), ItemID(Item{"id": float64(42)}))
	assert.Equal(t, int64(42), ItemID(Item{"id": "42"}))
	assert.Zero(t, ItemID(Item{}))
}
