// Package cli provides the interactive field survey client.
//
// It wires configuration, the local SQLite store, the server client, the
// connectivity monitor and the sync engine, then runs a REPL that lets a
// surveyor file culvert, ditch and storm drain reports with or without a
// connection.
//
// Key features:
//   - report: interactive form with conditional branches and photo paths
//   - queue / sync: inspect and replay offline submissions
//   - history: list past submissions of a reporter (online only)
//   - status: link mode and queue size
//
// Queued submissions are replayed automatically whenever the link comes
// back. The REPL is started via App.Run(ctx), which blocks until the user
// exits.
package cli
