package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basecamp-mcp/internal/auth"
	"basecamp-mcp/internal/basecamp"
	"basecamp-mcp/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitDiscard()
	os.Exit(m.Run())
}

type staticToken string

func (s staticToken) EnsureValid(ctx context.Context) (string, error) {
	return string(s), nil
}

type deniedToken struct{}

func (deniedToken) EnsureValid(ctx context.Context) (string, error) {
	return "", fmt.Errorf("credential expired: %w", auth.ErrAuthenticationRequired)
}

func newTestServer(t *testing.T, handler http.Handler, tokens basecamp.TokenSource) *Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := basecamp.NewClient("999", tokens, basecamp.WithBaseURL(srv.URL))
	return New(client, "test")
}

// callTool drives a tool through the JSON-RPC layer and returns the text
// payload of the result.
func callTool(t *testing.T, s *Server, name string, args map[string]any) (string, bool) {
	t.Helper()

	params := map[string]any{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	request, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  params,
	})
	require.NoError(t, err)

	raw := s.MCPServer().HandleMessage(context.Background(), request)
	resp, ok := raw.(mcp.JSONRPCResponse)
	require.True(t, ok, "unexpected response type %T", raw)

	var result *mcp.CallToolResult
	switch v := resp.Result.(type) {
	case *mcp.CallToolResult:
		result = v
	case mcp.CallToolResult:
		result = &v
	default:
		t.Fatalf("unexpected result type %T", resp.Result)
	}
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestGetProjectsTool(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Alpha","description":"first","dock":[],"purpose":"topic"}]`))
	})
	s := newTestServer(t, mux, staticToken("tok"))

	text, isErr := callTool(t, s, "get_projects", nil)
	require.False(t, isErr, text)

	var payload struct {
		Status   string          `json:"status"`
		Count    int             `json:"count"`
		Projects []basecamp.Item `json:"projects"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "Alpha", payload.Projects[0]["name"])
}

func TestGetProjectsTool_CompactDropsNoise(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Alpha","description":"d","app_url":"u","purpose":"topic","dock":[{"id":9}]}]`))
	})
	s := newTestServer(t, mux, staticToken("tok"))

	text, isErr := callTool(t, s, "get_projects", map[string]any{"compact": true})
	require.False(t, isErr, text)
	assert.NotContains(t, text, "purpose")
	assert.NotContains(t, text, "dock")
	assert.Contains(t, text, `"name":"Alpha"`)
}

func TestToolRequiresAuthentication(t *testing.T) {
	s := newTestServer(t, http.NewServeMux(), deniedToken{})

	text, isErr := callTool(t, s, "get_projects", nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "auth login")
}

func TestToolRejectsMissingID(t *testing.T) {
	s := newTestServer(t, http.NewServeMux(), staticToken("tok"))

	text, isErr := callTool(t, s, "get_todolists", nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "project_id argument is required")
}

func TestCreateTodoTool(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/buckets/1/todolists/2/todos.json", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":55,"title":"Write the report"}`))
	})
	s := newTestServer(t, mux, staticToken("tok"))

	text, isErr := callTool(t, s, "create_todo", map[string]any{
		"project_id":   "1",
		"todolist_id":  "2",
		"content":      "Write the report",
		"due_on":       "2026-09-15",
		"assignee_ids": []any{"7", float64(8)},
	})
	require.False(t, isErr, text)

	assert.Equal(t, "Write the report", gotBody["content"])
	assert.Equal(t, "2026-09-15", gotBody["due_on"])
	assert.Equal(t, []any{float64(7), float64(8)}, gotBody["assignee_ids"])
	assert.Contains(t, text, `"id":55`)
}

func TestCompleteTodoTool_NumericIDsAccepted(t *testing.T) {
	completed := false
	mux := http.NewServeMux()
	mux.HandleFunc("/buckets/1/todos/9/completion.json", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		completed = true
		w.WriteHeader(http.StatusNoContent)
	})
	s := newTestServer(t, mux, staticToken("tok"))

	text, isErr := callTool(t, s, "complete_todo", map[string]any{
		"project_id": float64(1),
		"todo_id":    float64(9),
	})
	require.False(t, isErr, text)
	assert.True(t, completed)
	assert.Contains(t, text, "completed")
}

func TestSearchTool_ReportsPerProjectFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects/1.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	s := newTestServer(t, mux, staticToken("tok"))

	text, isErr := callTool(t, s, "search_basecamp", map[string]any{
		"query":      "anything",
		"project_id": "1",
	})
	require.False(t, isErr, text)

	var payload struct {
		Status         string            `json:"status"`
		Count          int               `json:"count"`
		FailedProjects map[string]string `json:"failed_projects"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.Equal(t, "success", payload.Status)
	assert.Zero(t, payload.Count)
	assert.Contains(t, payload.FailedProjects, "1")
}

func TestOptionalIDCoercion(t *testing.T) {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"a": "123",
		"b": float64(456),
		"c": "not-a-number",
	}

	assert.Equal(t, int64(123), optionalID(req, "a"))
	assert.Equal(t, int64(456), optionalID(req, "b"))
	assert.Zero(t, optionalID(req, "c"))
	assert.Zero(t, optionalID(req, "missing"))

	_, err := requireID(req, "missing")
	assert.Error(t, err)
}
