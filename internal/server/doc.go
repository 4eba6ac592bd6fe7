// Package server exposes the Basecamp bridge as an MCP server over stdio.
//
// Each tool wraps one API operation (or one fan-out search) and returns a
// JSON text result with a status field. Errors never cross the MCP boundary
// as protocol failures: they become tool error results, with credential
// problems mapped to a message naming the auth login command. Token values
// never appear in any result or log line.
package server
