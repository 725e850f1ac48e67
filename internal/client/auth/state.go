package auth

import (
	"fmt"

	"github.com/ktech-edu/ktechhub/internal/client/session"
)

// Phase is the coarse position of State in the session lifecycle.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseAuthenticated
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the in-memory view of the session exposed to the UI.
type State struct {
	IsAuthenticated      bool
	IsLoading            bool
	UserData             *session.UserProfile
	IsBiometricAvailable bool
	IsBiometricEnabled   bool
}

func (s State) Phase() Phase {
	switch {
	case s.IsLoading:
		return PhaseStarting
	case s.IsAuthenticated:
		return PhaseAuthenticated
	default:
		return PhaseUnauthenticated
	}
}

func (s State) clone() State {
	s.UserData = s.UserData.Clone()
	return s
}
