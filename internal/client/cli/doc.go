// Package cli provides the interactive sharebox command-line client.
//
// It wires configuration, local session storage, API services, and an
// interactive REPL. Typical flow: register or log in, then manage files
// while a background connectivity watcher tracks server reachability.
//
// Key features:
//   - Register / Login / Logout (session survives restarts)
//   - Upload one or more files with duplicate screening
//   - List own files, delete, share with other users
//   - Inbox of received files with read receipts
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
