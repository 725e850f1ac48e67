package biometric

import (
	"context"
	"fmt"

	"github.com/ktech-edu/ktechhub/internal/common"
	"github.com/ktech-edu/ktechhub/internal/logging"
)

// AuthenticationType is the device-level unlock method preference.
type AuthenticationType int

const (
	TypeNone AuthenticationType = iota
	TypePasscode
	TypeBiometrics
)

func (t AuthenticationType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypePasscode:
		return "passcode"
	case TypeBiometrics:
		return "biometrics"
	default:
		return fmt.Sprintf("AuthenticationType(%d)", int(t))
	}
}

// Prompt is shown by the platform during a challenge.
type Prompt struct {
	Message            string
	FallbackLabel      string
	CancelLabel        string
	FallbackToPasscode bool
}

// DefaultPrompt is the prompt used for unlocking a stored session.
func DefaultPrompt() Prompt {
	return Prompt{
		Message:            "Authenticate to access " + common.AppName,
		FallbackLabel:      "Use password",
		CancelLabel:        "Cancel",
		FallbackToPasscode: true,
	}
}

// Result of one authentication attempt. Reason is set when Success is false.
type Result struct {
	Success bool
	Reason  string
}

// Failure reasons reported by platforms.
const (
	ReasonUserCancel  = "user_cancel"
	ReasonLockout     = "lockout"
	ReasonNotEnrolled = "not_enrolled"
)

// Platform is the device facility behind a Gate.
type Platform interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, prompt Prompt) (Result, error)
	SetAuthenticationType(ctx context.Context, t AuthenticationType) error
}

// Gate answers yes/no questions about local authentication.
type Gate struct {
	platform Platform
	prompt   Prompt
	log      logging.Logger
}

func NewGate(p Platform, log logging.Logger) *Gate {
	return &Gate{
		platform: p,
		prompt:   DefaultPrompt(),
		log:      log.With("component", "biometric"),
	}
}

// IsAvailable reports whether the device has the hardware and an enrolled
// credential.
func (g *Gate) IsAvailable(ctx context.Context) (ok bool) {
	defer g.recoverPlatform(ctx, "availability check", func() { ok = false })

	has, err := g.platform.HasHardware(ctx)
	if err != nil {
		g.log.Warn(ctx, "hardware check failed", "error", err)
		return false
	}
	if !has {
		return false
	}

	enrolled, err := g.platform.IsEnrolled(ctx)
	if err != nil {
		g.log.Warn(ctx, "enrollment check failed", "error", err)
		return false
	}
	return enrolled
}

// Challenge asks the user to authenticate. Only a successful match is true.
func (g *Gate) Challenge(ctx context.Context) (ok bool) {
	defer g.recoverPlatform(ctx, "challenge", func() { ok = false })

	res, err := g.platform.Authenticate(ctx, g.prompt)
	if err != nil {
		g.log.Warn(ctx, "authentication failed", "error", err)
		return false
	}
	if !res.Success {
		g.log.Info(ctx, "authentication rejected", "reason", res.Reason)
		return false
	}
	return true
}

// SetPreference records whether biometrics should be the device's unlock
// method. Failures are logged and reported as false.
func (g *Gate) SetPreference(ctx context.Context, enabled bool) (ok bool) {
	defer g.recoverPlatform(ctx, "set preference", func() { ok = false })

	t := TypeNone
	if enabled {
		t = TypeBiometrics
	}
	if err := g.platform.SetAuthenticationType(ctx, t); err != nil {
		g.log.Warn(ctx, "set authentication type failed", "type", t.String(), "error", err)
		return false
	}
	return true
}

func (g *Gate) recoverPlatform(ctx context.Context, op string, onPanic func()) {
	if r := recover(); r != nil {
		g.log.Error(ctx, "platform panicked", "op", op, "panic", r)
		onPanic()
	}
}
