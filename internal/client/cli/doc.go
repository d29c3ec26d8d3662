// Package cli provides the interactive StoreBox command-line client.
//
// It wires configuration, the local SQLite store (session tokens, search
// history) and the REST API client into an interactive REPL. Typical flow:
// restore the saved session, then execute user commands until exit.
//
// Key features:
//   - Register / Login / Logout (tokens persisted locally)
//   - List, upload, rename, share and delete files
//   - Incremental search with debounced server queries
//   - Storage usage summary per category
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
