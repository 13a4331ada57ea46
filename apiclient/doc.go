// Package apiclient talks to the marketplace REST API on behalf of one
// visitor session.
//
// Every request carries the session's bearer token. A 401 triggers exactly
// one refresh through POST /api/auth/refresh; on success the session is
// updated and the request replayed once, on failure the session is logged
// out. A 401 on the replay is returned unchanged. Concurrent requests that
// hit 401 each refresh independently.
package apiclient
