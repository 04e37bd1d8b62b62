// Package client is the SalesDesk backend client.
//
// # Overview
//
// HTTPClient issues JSON requests against the REST API rooted at the
// configured base URL. Every authenticated call:
//
//  1. attaches "Authorization: Bearer <access token>" when a token is stored;
//  2. on 401, runs one refresh cycle (POST /auth/refresh) and replays the
//     request once with the new token;
//  3. on a second 401, or when the refresh fails, clears both tokens, runs
//     the OnAuthExpired hooks and returns ErrAuthenticationExpired.
//
// Refreshes are single-flight: concurrent 401s share one refresh call, so a
// rotated refresh token is never submitted twice.
//
// Public requests (login) skip steps 1-3 entirely.
//
// # Error Handling
//
// Callers match errors with errors.Is / errors.As:
//
//   - *NetworkError: no response, or an undecodable 2xx body
//   - *APIError: non-2xx response, Message from the {"detail": "..."} body
//     or GenericErrorMessage
//   - ErrAuthenticationExpired: the session is gone (hard logout done)
//
// Nothing is retried except the single 401 replay.
//
// # Resource groups
//
// Auth, Projects, Orders, Messages, Integrations, Assistant, Reports,
// Subscriptions, Products and BotTraining are stateless wrappers over
// Requester.
//
// # Local state
//
// InitDatabase opens the SQLite state file and applies the embedded goose
// migrations (see internal/client/migrations).
package client
