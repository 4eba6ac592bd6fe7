// Package auth manages the OAuth credential lifecycle for the Basecamp
// bridge: authorization-code and refresh-token exchanges against the
// 37signals launchpad token endpoint, and a manager that guarantees every
// caller sees a valid, non-expired access token.
//
// The manager applies single-flight discipline to refreshes. Refresh tokens
// may be rotated (invalidated and replaced) on every refresh, so concurrent
// callers must never race two refreshes against the same stale token: the
// first caller performs the exchange, everyone else waits on its outcome.
//
// A refreshed credential is persisted before any waiter is released, so the
// state observed after EnsureValid returns is always durable. A terminal
// rejection of the refresh token sticks the manager in an invalid state that
// only an out-of-band authorization (auth login) can lift; the credential
// file watcher picks that up automatically.
package auth
