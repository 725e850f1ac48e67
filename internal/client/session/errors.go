package session

import "errors"

// ErrInvalidProfile is returned when a profile has no student identifier or
// is not a JSON object.
var ErrInvalidProfile = errors.New("invalid user profile")
