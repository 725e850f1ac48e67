package biometric

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ktech-edu/ktechhub/internal/client/kvstore"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// Store keys owned by the passcode platform.
const (
	KeyPasscode = "device_passcode"
	KeyAuthType = "authentication_type"
)

// MinPasscodeLen is the shortest passcode Enroll accepts.
const MinPasscodeLen = 4

var (
	ErrPasscodeTooShort = errors.New("passcode too short")
	ErrNotEnrolled      = errors.New("no passcode enrolled")
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// PasscodePlatform implements Platform with a bcrypt-hashed passcode read
// from the terminal without echo.
type PasscodePlatform struct {
	kv       *kvstore.Store
	fd       int
	out      io.Writer
	attempts int
	cost     int
}

// NewPasscodePlatform reads from the terminal fd and writes prompts to out.
// attempts below 1 is treated as 1.
func NewPasscodePlatform(kv *kvstore.Store, fd int, out io.Writer, attempts int) *PasscodePlatform {
	return &PasscodePlatform{
		kv:       kv,
		fd:       fd,
		out:      out,
		attempts: max(attempts, 1),
		cost:     bcrypt.DefaultCost,
	}
}

func (p *PasscodePlatform) HasHardware(context.Context) (bool, error) {
	return isTerminal(p.fd), nil
}

func (p *PasscodePlatform) IsEnrolled(ctx context.Context) (bool, error) {
	_, err := p.hash(ctx)
	if errors.Is(err, ErrNotEnrolled) {
		return false, nil
	}
	return err == nil, err
}

func (p *PasscodePlatform) hash(ctx context.Context) ([]byte, error) {
	var h string
	err := p.kv.Get(ctx, KeyPasscode, &h)
	if kvstore.IsAbsent(err) || (err == nil && h == "") {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, fmt.Errorf("read passcode: %w", err)
	}
	return []byte(h), nil
}

// Enroll replaces the stored passcode.
func (p *PasscodePlatform) Enroll(ctx context.Context, passcode []byte) error {
	if len(passcode) < MinPasscodeLen {
		return fmt.Errorf("%w: need at least %d characters", ErrPasscodeTooShort, MinPasscodeLen)
	}

	h, err := bcrypt.GenerateFromPassword(passcode, p.cost)
	if err != nil {
		return fmt.Errorf("hash passcode: %w", err)
	}
	if err := p.kv.Set(ctx, KeyPasscode, string(h)); err != nil {
		return fmt.Errorf("save passcode: %w", err)
	}
	return nil
}

// Authenticate asks for the passcode up to the configured number of
// attempts. An empty entry cancels.
func (p *PasscodePlatform) Authenticate(ctx context.Context, prompt Prompt) (Result, error) {
	h, err := p.hash(ctx)
	if errors.Is(err, ErrNotEnrolled) {
		return Result{Reason: ReasonNotEnrolled}, nil
	}
	if err != nil {
		return Result{}, err
	}

	fmt.Fprintln(p.out, prompt.Message)
	fmt.Fprintf(p.out, "(press Enter to %s)\n", prompt.CancelLabel)

	for range p.attempts {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		fmt.Fprint(p.out, "Passcode: ")
		entered, err := readPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return Result{}, fmt.Errorf("read passcode: %w", err)
		}
		if len(entered) == 0 {
			return Result{Reason: ReasonUserCancel}, nil
		}

		err = bcrypt.CompareHashAndPassword(h, entered)
		clear(entered)
		if err == nil {
			return Result{Success: true}, nil
		}
		fmt.Fprintln(p.out, "Incorrect passcode.")
	}
	return Result{Reason: ReasonLockout}, nil
}

func (p *PasscodePlatform) SetAuthenticationType(ctx context.Context, t AuthenticationType) error {
	return p.kv.Set(ctx, KeyAuthType, t.String())
}

// AuthenticationType returns the stored preference, TypeNone when unset.
func (p *PasscodePlatform) AuthenticationType(ctx context.Context) (AuthenticationType, error) {
	var s string
	err := p.kv.Get(ctx, KeyAuthType, &s)
	if kvstore.IsAbsent(err) {
		return TypeNone, nil
	}
	if err != nil {
		return TypeNone, err
	}

	for _, t := range []AuthenticationType{TypeNone, TypePasscode, TypeBiometrics} {
		if t.String() == s {
			return t, nil
		}
	}
	return TypeNone, nil
}
