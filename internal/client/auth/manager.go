package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/ktech-edu/ktechhub/internal/client/session"
	"github.com/ktech-edu/ktechhub/internal/logging"
	"golang.org/x/sync/errgroup"
)

// SessionStore persists the session record.
type SessionStore interface {
	Save(ctx context.Context, token string, profile session.UserProfile) error
	Load(ctx context.Context) (session.Record, error)
	Clear(ctx context.Context) error
	SetBiometricEnabled(ctx context.Context, enabled bool) error
	IsBiometricEnabled(ctx context.Context) (bool, error)
}

// BiometricGate answers local-authentication questions. Implementations
// fail closed and never return errors.
type BiometricGate interface {
	IsAvailable(ctx context.Context) bool
	Challenge(ctx context.Context) bool
	SetPreference(ctx context.Context, enabled bool) bool
}

// Manager runs the session state machine.
type Manager struct {
	store SessionStore
	gate  BiometricGate
	log   logging.Logger

	// opMu serialises the public transitions.
	opMu    sync.Mutex
	resumed bool

	mu      sync.RWMutex
	state   State
	subs    map[int]chan State
	nextSub int
}

func NewManager(store SessionStore, gate BiometricGate, log logging.Logger) *Manager {
	return &Manager{
		store: store,
		gate:  gate,
		log:   log.With("component", "auth"),
		state: State{IsLoading: true},
		subs:  make(map[int]chan State),
	}
}

func (m *Manager) ready() bool {
	return m != nil && m.store != nil && m.gate != nil && m.log != nil
}

// State returns a snapshot of the current state.
func (m *Manager) State() State {
	if !m.ready() {
		return State{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// Subscribe returns a channel that always holds the latest state not yet
// received, starting with the current one. Slow readers skip intermediate
// states. The returned func unsubscribes and closes the channel.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	if !m.ready() {
		close(ch)
		return ch, func() {}
	}

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.state.clone()
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			close(ch)
			m.mu.Unlock()
		})
	}
}

// update applies change to the state and notifies subscribers.
func (m *Manager) update(change func(s *State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	change(&m.state)
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- m.state.clone()
	}
}

// Resume restores the persisted session at startup. Failures are logged and
// end unauthenticated; the loading phase is left on every path.
func (m *Manager) Resume(ctx context.Context) error {
	if !m.ready() {
		return ErrNotInitialized
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.resumed {
		return ErrAlreadyResumed
	}
	m.resumed = true

	var next State
	defer func() {
		if r := recover(); r != nil {
			m.log.Error(ctx, "resume panicked", "panic", r)
			next.IsAuthenticated = false
			next.UserData = nil
		}
		m.update(func(s *State) { *s = next })
		m.log.Info(ctx, "session resumed", "phase", next.Phase().String())
	}()

	m.resume(ctx, &next)
	return nil
}

func (m *Manager) resume(ctx context.Context, next *State) {
	var (
		available bool
		rec       session.Record
		loadErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		return protect(func() { available = m.gate.IsAvailable(ctx) })
	})
	g.Go(func() error {
		return protect(func() { rec, loadErr = m.store.Load(ctx) })
	})
	err := g.Wait()
	next.IsBiometricAvailable = available
	if err != nil {
		m.log.Error(ctx, "resume failed", "error", err)
		return
	}

	if available {
		enabled, err := m.store.IsBiometricEnabled(ctx)
		if err != nil {
			m.log.Warn(ctx, "read biometric preference failed", "error", err)
		}
		next.IsBiometricEnabled = enabled
	}

	if loadErr != nil {
		m.log.Warn(ctx, "load session failed", "error", loadErr)
		return
	}

	if rec.Partial || rec.Orphaned() {
		m.log.Warn(ctx, "discarding incomplete session",
			"partial", rec.Partial, "has_token", rec.Token != "", "has_profile", rec.Profile != nil)
		m.clear(ctx)
		return
	}
	if !rec.Complete() {
		return
	}

	if next.IsBiometricEnabled && !m.gate.Challenge(ctx) {
		m.log.Info(ctx, "biometric challenge failed, signing out")
		m.clear(ctx)
		return
	}

	next.IsAuthenticated = true
	next.UserData = rec.Profile.Clone()
}

// clear removes the persisted record, logging failures.
func (m *Manager) clear(ctx context.Context) error {
	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Error(ctx, "clear session failed", "error", err)
	}
	return err
}

// Login persists token and profile and signs the user in. On a persistence
// error the state is unchanged.
func (m *Manager) Login(ctx context.Context, token string, profile session.UserProfile) error {
	if !m.ready() {
		return ErrNotInitialized
	}
	if token == "" {
		return ErrInvalidSession
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.store.Save(ctx, token, profile); err != nil {
		m.log.Error(ctx, "save session failed", "error", err)
		return fmt.Errorf("login: %w", err)
	}

	m.update(func(s *State) {
		s.IsAuthenticated = true
		s.UserData = profile.Clone()
	})
	m.log.Info(ctx, "signed in", "student_id", profile.StudentID)
	return nil
}

// Logout clears the persisted record and signs the user out. The in-memory
// state is signed out even when clearing fails; that error is returned.
func (m *Manager) Logout(ctx context.Context) error {
	if !m.ready() {
		return ErrNotInitialized
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	err := m.clear(ctx)
	m.update(func(s *State) {
		s.IsAuthenticated = false
		s.UserData = nil
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ToggleBiometric turns biometric unlock on or off and reports whether the
// change took effect. Enabling requires a successful challenge; disabling
// does not and always succeeds.
func (m *Manager) ToggleBiometric(ctx context.Context, enable bool) (bool, error) {
	if !m.ready() {
		return false, ErrNotInitialized
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if enable {
		if !m.gate.Challenge(ctx) {
			m.log.Info(ctx, "biometric enable rejected")
			return false, nil
		}
		if err := m.store.SetBiometricEnabled(ctx, true); err != nil {
			m.log.Error(ctx, "save biometric preference failed", "error", err)
			return false, fmt.Errorf("enable biometric: %w", err)
		}
	} else if err := m.store.SetBiometricEnabled(ctx, false); err != nil {
		m.log.Warn(ctx, "save biometric preference failed", "error", err)
	}

	if !m.gate.SetPreference(ctx, enable) {
		m.log.Warn(ctx, "platform did not accept biometric preference", "enabled", enable)
	}

	m.update(func(s *State) { s.IsBiometricEnabled = enable })
	return true, nil
}

func protect(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	f()
	return nil
}
