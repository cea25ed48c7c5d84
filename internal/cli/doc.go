// Package cli provides the interactive card vault command-line client.
//
// It wires configuration, local storage, key management, the card services
// and the CardMatch backend client into an interactive REPL.
//
// Key features:
//   - Register interest cards (encrypted at rest, hashed for matching)
//   - List / Show / Delete cards
//   - Per-category cooldown inspection
//   - Merged local/server registration status
//   - Hash submission to the matching backend
//   - Full local wipe
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
