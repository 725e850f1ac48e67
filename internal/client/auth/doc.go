// Package auth owns the client's authentication state.
//
// Manager is the single owner of State. It starts in the loading phase,
// leaves it exactly once when Resume completes, and moves between
// authenticated and unauthenticated through Login, Logout and a failed
// biometric challenge. Consumers read snapshots with State or follow
// changes with Subscribe; they never mutate the manager's copy.
//
// Public transitions are serialised. Each one runs to completion before the
// next starts, so no partial state is ever published.
package auth
