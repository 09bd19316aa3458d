// Package cli defines the flowdo command tree.
//
// The root command starts the TUI. Every other command is a one-shot run:
// it bootstraps the same services the TUI uses, refreshes the store from the
// server and then calls a single store operation, so scripted edits follow
// the same optimistic add/update/delete paths and leave the same log lines.
//
// Tasks, projects and contexts can be addressed by full ID, a unique ID
// prefix, or (for projects and contexts) their name, ignoring case.
package cli
