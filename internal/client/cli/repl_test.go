package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Tour(ctx context.Context) error {
	f.calls = append(f.calls, "tour")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Passcode(ctx context.Context) error {
	f.calls = append(f.calls, "passcode")
	return nil
}
func (f *fakeExec) Dashboard(ctx context.Context) error {
	f.calls = append(f.calls, "dashboard")
	return nil
}
func (f *fakeExec) Biometric(ctx context.Context, arg string) error {
	f.calls = append(f.calls, "biometric")
	f.arg = arg
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	lines := capturePrintln(t)

	input := rdr("help\ntour\nlogin\nhelp\ndashboard\nbiometric on\npasscode\nlogout\nfoobar\nexit\nlogin\n")
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "status" }, input)

	assert.Equal(t, []string{"tour", "login", "dashboard", "biometric", "passcode", "logout"}, exec.calls)
	assert.Equal(t, "on", exec.arg)
	assert.Contains(t, *lines, "Available commands: tour, login, passcode, exit")
	assert.Contains(t, *lines, "Available commands: dashboard, biometric on|off, passcode, logout, exit")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, "Bye!")
	assert.Contains(t, *lines, "ktech status>")
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("biometric\nbiometric on off\nquit\n"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, "Usage: biometric on|off")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("\n\nlogin"))

	assert.Equal(t, []string{"login"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("login\n"))

	assert.Empty(t, exec.calls)
}
