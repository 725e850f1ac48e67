package kvstore

import "errors"

var (
	// ErrNotFound is returned when no value is stored under a key.
	ErrNotFound = errors.New("key not found")

	// ErrCorrupt is returned when a stored value cannot be decoded.
	ErrCorrupt = errors.New("corrupt value")

	// ErrUnknownBackend is returned by Open for an unsupported Kind.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// IsAbsent reports whether err means "no usable value": the key is missing
// or its value is corrupt.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt)
}
