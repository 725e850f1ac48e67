package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ktech-edu/ktechhub/internal/client/api"
	"github.com/ktech-edu/ktechhub/internal/client/biometric"
	"github.com/ktech-edu/ktechhub/internal/client/services"
	"github.com/ktech-edu/ktechhub/internal/client/session"
	"github.com/ktech-edu/ktechhub/internal/common"
)

// getSimpleText, getPassword and getSecret are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getSecret     = GetSecret
)

// now is a test seam for the dashboard's expiry line.
var now = time.Now

const (
	msgLoginFallback    = "An error occurred during login. Please try again."
	msgBiometricFailed  = "Failed to enable biometric authentication. Please try again."
	msgNeedLogin        = "Please log in first."
	msgBiometricMissing = "Biometric authentication is not available on this device. Use 'passcode' to set one up."
)

// Login prompts for a student id and password and signs in.
//
// Missing fields are reported one per line. Any other failure is shown as
// "Login Failed: <message>", where the message is the server's own text
// when it sent one. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in.")
		return nil
	}

	studentID, err := getSimpleText(a.reader, "Student ID", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	profile, err := a.authService.SignIn(ctx, studentID, password)
	if err != nil {
		var v *services.ValidationError
		if errors.As(err, &v) {
			for _, msg := range []string{v.StudentID, v.Password} {
				if msg != "" {
					fmt.Fprintln(a.out, msg)
				}
			}
			return err
		}

		a.log.Warn(ctx, "login failed", "error", err)
		fmt.Fprintf(a.out, "Login Failed: %s\n", loginFailureMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", profile.DisplayName())
	return nil
}

func loginFailureMessage(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) {
		return se.Error()
	}

	msg := strings.TrimPrefix(err.Error(), "login error: ")
	if msg == "" {
		return msgLoginFallback
	}
	return msg
}

// Logout signs out. The local session is dropped even when clearing the
// store fails; that failure is only logged.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.SignOut(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Dashboard prints the signed-in student, session expiry when the token
// carries one, and the biometric setting when the device supports it.
func (a *App) Dashboard(ctx context.Context) error {
	s := a.manager.State()
	if !s.IsAuthenticated {
		fmt.Fprintln(a.out, msgNeedLogin)
		return nil
	}

	var b bytes.Buffer
	fmt.Fprintln(&b, "Dashboard")
	fmt.Fprintf(&b, "Welcome, %s!\n", s.UserData.DisplayName())
	if s.UserData != nil && s.UserData.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", s.UserData.Name)
	}
	if s.UserData != nil && s.UserData.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", s.UserData.Email)
	}

	rec, err := a.records.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "read session for dashboard failed", "error", err)
	} else if info, ok := session.InspectToken(rec.Token); ok && !info.ExpiresAt.IsZero() {
		state := "expires"
		if info.Expired(now()) {
			state = "expired"
		}
		fmt.Fprintf(&b, "Session %s: %s\n", state, info.ExpiresAt.Local().Format(time.DateTime))
	}

	if s.IsBiometricAvailable {
		fmt.Fprintf(&b, "Biometric Authentication: %s\n", onOff(s.IsBiometricEnabled))
	}

	_, err = a.out.Write(b.Bytes())
	return err
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Biometric turns biometric unlock on or off.
func (a *App) Biometric(ctx context.Context, arg string) error {
	s := a.manager.State()
	if !s.IsAuthenticated {
		fmt.Fprintln(a.out, msgNeedLogin)
		return nil
	}
	if !s.IsBiometricAvailable {
		fmt.Fprintln(a.out, msgBiometricMissing)
		return nil
	}

	var enable bool
	switch strings.ToLower(arg) {
	case "on":
		enable = true
	case "off":
		enable = false
	default:
		fmt.Fprintln(a.out, "Usage: biometric on|off")
		return nil
	}

	ok, err := a.manager.ToggleBiometric(ctx, enable)
	if err != nil {
		a.log.Error(ctx, "toggle biometric failed", "error", err)
	}
	if !ok {
		fmt.Fprintln(a.out, msgBiometricFailed)
		return err
	}

	if enable {
		fmt.Fprintln(a.out, "Biometric authentication enabled.")
	} else {
		fmt.Fprintln(a.out, "Biometric authentication disabled.")
	}
	return nil
}

// Passcode enrols a new device passcode, which is what the biometric
// prompt asks for.
func (a *App) Passcode(ctx context.Context) error {
	first, err := getSecret(a.out, "New passcode: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(first)

	second, err := getSecret(a.out, "Confirm passcode: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		fmt.Fprintln(a.out, "Passcodes do not match.")
		return nil
	}

	if err := a.passcode.Enroll(ctx, first); err != nil {
		if errors.Is(err, biometric.ErrPasscodeTooShort) {
			fmt.Fprintf(a.out, "Passcode must be at least %d characters.\n", biometric.MinPasscodeLen)
			return nil
		}
		a.log.Error(ctx, "enroll passcode failed", "error", err)
		fmt.Fprintln(a.out, "Could not save the passcode.")
		return err
	}

	fmt.Fprintln(a.out, "Passcode saved.")
	if !a.manager.State().IsBiometricAvailable {
		fmt.Fprintf(a.out, "Restart %s to use it for biometric unlock.\n", common.AppName)
	}
	return nil
}
