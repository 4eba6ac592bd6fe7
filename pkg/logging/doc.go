// Package logging provides a structured logging system built on Go's standard
// slog package, with level filtering and a subsystem tag on every entry.
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **Auth**: credential lifecycle, token refresh
//   - **Basecamp**: API client requests and pagination
//   - **Search**: cross-project fan-out
//   - **Server**: MCP tool dispatch
//   - **Config**: configuration loading and validation
//
// Token and credential values are never logged; only server URLs, expiry
// timestamps, and status codes appear in log entries.
package logging
