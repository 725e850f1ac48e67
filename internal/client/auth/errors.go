package auth

import "errors"

var (
	// ErrNotInitialized is returned by a Manager that was not built with
	// NewManager.
	ErrNotInitialized = errors.New("auth manager not initialized")

	// ErrAlreadyResumed is returned by every Resume after the first.
	ErrAlreadyResumed = errors.New("session already resumed")

	// ErrInvalidSession is returned by Login for an empty token.
	ErrInvalidSession = errors.New("invalid session")

	errPanic = errors.New("collaborator panicked")
)
