// Package app wires flowdo together.
//
// # Overview
//
// Bootstrap is the composition root shared by the TUI and the one-shot
// commands:
//
//  1. Load configuration (~/.config/flowdo/config.toml by default)
//  2. Open the append-only log file, optionally mirrored to stderr
//  3. Restore the session from the saved token, if any
//  4. Build the API client with the session as its token source
//  5. Build the state.Store on top of the client, gated by the session
//  6. Load UI preferences
//
// Run does the same, starts Follow in the background and hands control to
// the TUI until the user quits.
//
// # Components
//
//   - app.go: Bootstrap, Env helpers (sign in/out, uploader, sync) and Run
//   - follow.go: session follower that refreshes on sign-in and clears on
//     sign-out
//
// # Session following
//
//	status stream ──→ Follow
//	                   ├─ Ready     → Refresh, retry with backoff
//	                   ├─ SignedOut → store.Clear (no network)
//	                   └─ other     → cancel any pending refresh
//
// Retries back off exponentially from 2s up to 30s. A refresh that reports
// the session is no longer ready stops retrying immediately; the next
// status change decides what happens.
package app
