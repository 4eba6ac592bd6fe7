// Package basecamp is an authenticated client for the Basecamp 3 REST API,
// scoped to one account.
//
// Every request obtains its access token from a TokenSource, so token expiry
// and refresh are invisible to callers. Collection endpoints are fetched to
// exhaustion through the Link rel="next" header and returned as one
// concatenated list in server order; a failed page fails the whole fetch.
// Rate-limited pages are retried a bounded number of times honoring the
// server's Retry-After hint.
//
// Container tools (todoset, message board, inbox, schedule, questionnaire,
// card tables) are not addressable directly; their IDs are discovered from
// the project dock first.
package basecamp
