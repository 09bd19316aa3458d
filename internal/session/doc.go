// Package session tracks the signed-in user and supplies bearer tokens.
//
// The identity provider issues a JWT ID token; the session reads its claims
// (subject, email, email_verified, exp) without verifying the signature,
// since the backend verifies every request. A Session starts out
// initializing, and Restore or SignIn/SignOut move it to one of the settled
// statuses. Only StatusReady (signed in, email verified) allows API calls.
//
// Subscribe lets the application react to status changes, which is how the
// store is refreshed when a session becomes ready and cleared on sign-out.
// Tokens persist between runs in a small TOML file (LoadToken/SaveToken).
package session
