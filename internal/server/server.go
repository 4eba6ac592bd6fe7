package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"basecamp-mcp/internal/auth"
	"basecamp-mcp/internal/basecamp"
	"basecamp-mcp/internal/search"
	"basecamp-mcp/pkg/logging"
)

// authRequiredMessage is what a tool caller sees when no usable credential
// exists. It names the command that fixes it.
const authRequiredMessage = "Authentication required: run 'basecamp-mcp auth login' in a terminal to authorize, then retry."

// Server exposes the Basecamp bridge as MCP tools over stdio.
type Server struct {
	mcpServer *server.MCPServer
	client    *basecamp.Client
	searcher  *search.Searcher
}

// New creates the MCP server and registers every tool.
func New(client *basecamp.Client, version string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"basecamp-mcp",
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		client:   client,
		searcher: search.NewSearcher(client),
	}

	s.registerProjectTools()
	s.registerTodoTools()
	s.registerMessagingTools()
	s.registerCardTools()
	s.registerResourceTools()
	return s
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
// Logging must already be routed away from stdout.
func (s *Server) ServeStdio() error {
	logging.Info("Server", "Serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// MCPServer exposes the underlying server for in-process tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

func (s *Server) addTool(tool mcp.Tool, handler toolHandler) {
	s.mcpServer.AddTool(tool, handler)
}

// Declaration helpers. Record IDs are declared as strings to match the wire
// convention of the hosted API docs, but numeric arguments are accepted too.

func idArg(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Required(), mcp.Description(desc))
}

func optionalIDArg(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Description(desc))
}

func strArg(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Required(), mcp.Description(desc))
}

func optionalStrArg(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Description(desc))
}

func compactArg() mcp.ToolOption {
	return mcp.WithBoolean("compact", mcp.Description("Return only essential fields to reduce response size"))
}

// Argument coercion. MCP clients are inconsistent about sending IDs as JSON
// strings or numbers; both are accepted.

func requireID(request mcp.CallToolRequest, name string) (int64, error) {
	id := optionalID(request, name)
	if id == 0 {
		return 0, fmt.Errorf("%s argument is required", name)
	}
	return id, nil
}

func optionalID(request mcp.CallToolRequest, name string) int64 {
	switch v := request.GetArguments()[name].(type) {
	case string:
		id, _ := strconv.ParseInt(v, 10, 64)
		return id
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func optionalIDList(request mcp.CallToolRequest, name string) []int64 {
	raw, ok := request.GetArguments()[name].([]any)
	if !ok {
		return nil
	}
	var ids []int64
	for _, v := range raw {
		switch id := v.(type) {
		case string:
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				ids = append(ids, n)
			}
		case float64:
			ids = append(ids, int64(id))
		}
	}
	return ids
}

func optionalStringList(request mcp.CallToolRequest, name string) []string {
	raw, ok := request.GetArguments()[name].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Result envelopes, matching {"status": "success", ...} throughout.

func successResult(payload map[string]any) *mcp.CallToolResult {
	payload["status"] = "success"
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func listResult(key string, items []basecamp.Item, compact bool, compactType string) *mcp.CallToolResult {
	if compact {
		items = basecamp.CompactList(items, compactType)
	}
	if items == nil {
		items = []basecamp.Item{}
	}
	return successResult(map[string]any{key: items, "count": len(items)})
}

func itemResult(key string, item basecamp.Item) *mcp.CallToolResult {
	return successResult(map[string]any{key: item})
}

func messageResult(format string, args ...any) *mcp.CallToolResult {
	return successResult(map[string]any{"message": fmt.Sprintf(format, args...)})
}

// errorResult maps errors onto tool failures. Credential problems get the
// actionable re-authentication message; everything else passes through.
func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, auth.ErrAuthenticationRequired) {
		return mcp.NewToolResultError(authRequiredMessage)
	}

	var rateErr *basecamp.RateLimitedError
	if errors.As(err, &rateErr) {
		return mcp.NewToolResultError("Basecamp is rate limiting requests. Wait a moment and retry.")
	}

	return mcp.NewToolResultError(err.Error())
}
