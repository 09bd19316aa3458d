// Package api provides an HTTP client for the flowdo REST backend.
//
// # Overview
//
// The backend is the authority for tasks, projects, and next-action
// contexts. This package knows the wire format and the endpoints; it holds no
// state of its own. Local caching and optimistic updates live in the state
// package, which consumes *Client through a narrow interface.
//
// # Files
//
//   - client.go: endpoint methods and request/response handling
//   - fetch.go: per-request deadline and error classification
//   - types.go: wire types mirroring the backend schema
//   - errors.go: error taxonomy and user-facing messages
//
// # Client Usage
//
//	client, err := api.NewClient(cfg.APIBaseURL, sess, cfg.RequestTimeout)
//	if err != nil {
//		return fmt.Errorf("init api client: %w", err)
//	}
//	tasks, err := client.FetchTasks(ctx)
//
// Every request carries "Authorization: Bearer <token>" using the
// TokenSource passed to NewClient, normally the session.
//
// # Endpoints
//
//	GET    /api/tasks               -> {"tasks": [...]}
//	POST   /api/tasks               -> {"task": {...}}
//	PUT    /api/tasks/:id           -> {"task": {...}}
//	DELETE /api/tasks/:id
//	GET    /api/projects            -> {"projects": [...]}
//	POST   /api/projects            -> {"project": {...}}
//	PUT    /api/projects/:id        -> {"project": {...}}
//	DELETE /api/projects/:id
//	GET    /api/next-actions        -> {"nextActions": [...]}
//	POST   /api/next-actions        -> {"nextAction": {...}}
//	PUT    /api/next-actions/:id    -> {"nextAction": {...}}
//	DELETE /api/next-actions/:id
//	POST   /api/ai/assistant        -> {"message": "..."}
//
// # Timeouts
//
// Each call runs under its own deadline (DefaultTimeout unless configured).
// When the deadline fires the request is aborted and the call returns an
// error matching ErrTimeout. Cancelling the caller's context yields
// ErrAborted. Both are ordinary failures; the store rolls back on them like
// on any other error.
//
// # Errors
//
// Non-2xx responses are returned as *StatusError, which matches
// ErrUnauthorized (401/403), ErrRateLimited (429) and ErrServer (5xx) through
// errors.Is. A success status whose body lacks the expected envelope field
// is ErrMalformed. FriendlyMessage renders any of these for the user.
//
// Update calls return the record that was sent with the reply's fields
// decoded over it, so a server that echoes only the changed fields does not
// blank the rest.
package api
