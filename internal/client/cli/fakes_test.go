package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/ktech-edu/ktechhub/internal/client/auth"
	"github.com/ktech-edu/ktechhub/internal/client/kvstore"
	"github.com/ktech-edu/ktechhub/internal/client/session"
	"github.com/ktech-edu/ktechhub/internal/logging"
)

type fakeManager struct {
	mu sync.Mutex

	state     auth.State
	afterLoad auth.State
	resumeErr error
	resumes   int

	toggleOK  bool
	toggleErr error
	toggles   []bool
}

func (f *fakeManager) State() auth.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeManager) set(s auth.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}

func (f *fakeManager) Subscribe() (<-chan auth.State, func()) {
	ch := make(chan auth.State, 1)
	ch <- f.State()
	return ch, func() {}
}

func (f *fakeManager) Resume(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
	f.state = f.afterLoad
	return f.resumeErr
}

func (f *fakeManager) ToggleBiometric(_ context.Context, enable bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles = append(f.toggles, enable)
	if f.toggleOK {
		f.state.IsBiometricEnabled = enable
	}
	return f.toggleOK, f.toggleErr
}

type fakeAuth struct {
	mgr *fakeManager

	profile    *session.UserProfile
	signInErr  error
	signOutErr error

	signIns  int
	signOuts int
	lastID   string
	lastPass []byte
}

func (f *fakeAuth) SignIn(_ context.Context, studentID string, password []byte) (*session.UserProfile, error) {
	f.signIns++
	f.lastID = studentID
	f.lastPass = append([]byte(nil), password...)
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	if f.mgr != nil {
		f.mgr.set(auth.State{IsAuthenticated: true, UserData: f.profile})
	}
	return f.profile, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.signOuts++
	if f.mgr != nil {
		f.mgr.set(auth.State{})
	}
	return f.signOutErr
}

type fakeRecords struct {
	rec session.Record
	err error
}

func (f *fakeRecords) Load(context.Context) (session.Record, error) { return f.rec, f.err }

type fakeEnroller struct {
	err      error
	enrolled [][]byte
}

func (f *fakeEnroller) Enroll(_ context.Context, passcode []byte) error {
	if f.err != nil {
		return f.err
	}
	f.enrolled = append(f.enrolled, append([]byte(nil), passcode...))
	return nil
}

type testApp struct {
	*App
	out      *bytes.Buffer
	mgr      *fakeManager
	auth     *fakeAuth
	records  *fakeRecords
	enroller *fakeEnroller
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	log := logging.NewNop()
	mgr := &fakeManager{}
	fa := &fakeAuth{mgr: mgr, profile: &session.UserProfile{StudentID: "20231234"}}
	recs := &fakeRecords{}
	enr := &fakeEnroller{}
	var out bytes.Buffer

	a := &App{
		log:         log,
		kv:          kvstore.New(kvstore.NewMemory(), log),
		manager:     mgr,
		records:     recs,
		authService: fa,
		passcode:    enr,
		reader:      bufio.NewReader(strings.NewReader(input)),
		out:         &out,
	}
	return &testApp{App: a, out: &out, mgr: mgr, auth: fa, records: recs, enroller: enr}
}

func signedIn(id string) auth.State {
	return auth.State{IsAuthenticated: true, UserData: &session.UserProfile{StudentID: id}}
}

// stubSecrets feeds entries to getPassword and getSecret in order.
func stubSecrets(t *testing.T, entries ...string) {
	t.Helper()
	origPW, origSecret := getPassword, getSecret
	t.Cleanup(func() {
		getPassword = origPW
		getSecret = origSecret
	})

	next := func() ([]byte, error) {
		if len(entries) == 0 {
			return nil, io.EOF
		}
		e := entries[0]
		entries = entries[1:]
		return []byte(e), nil
	}
	getPassword = func(io.Writer) ([]byte, error) { return next() }
	getSecret = func(io.Writer, string) ([]byte, error) { return next() }
}

// capturePrintln records REPL output.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(fmtAny(v))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func fmtAny(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
