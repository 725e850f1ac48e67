// Package cli provides the interactive KTech Hub command-line client.
//
// It wires configuration, the local key-value store, the biometric gate,
// the auth manager and the login service, then runs a small REPL. Typical
// flow: restore the previous session, show the feature tour on first run,
// prompt for credentials when signed out, and execute user commands.
//
// Key features:
//   - Login / Logout
//   - Dashboard with the signed-in student and session details
//   - Biometric unlock on/off, backed by a local passcode
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartStateWatcher, and runREPL for details.
package cli
