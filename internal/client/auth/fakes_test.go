package auth

import (
	"context"
	"sync"

	"github.com/ktech-edu/ktechhub/internal/client/session"
)

type fakeStore struct {
	mu sync.Mutex

	rec       session.Record
	biometric bool

	loadErr   error
	saveErr   error
	clearErr  error
	setBioErr error
	getBioErr error
	panicLoad bool

	saves  int
	clears int
}

func (f *fakeStore) Save(_ context.Context, token string, p session.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rec = session.Record{Token: token, Profile: p.Clone()}
	return nil
}

func (f *fakeStore) Load(context.Context) (session.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicLoad {
		panic("store exploded")
	}
	if f.loadErr != nil {
		return session.Record{}, f.loadErr
	}
	return session.Record{Token: f.rec.Token, Profile: f.rec.Profile.Clone(), Partial: f.rec.Partial}, nil
}

func (f *fakeStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.rec = session.Record{}
	return nil
}

func (f *fakeStore) SetBiometricEnabled(_ context.Context, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setBioErr != nil {
		return f.setBioErr
	}
	f.biometric = enabled
	return nil
}

func (f *fakeStore) IsBiometricEnabled(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.biometric, f.getBioErr
}

func (f *fakeStore) record() session.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec
}

type fakeGate struct {
	mu sync.Mutex

	available      bool
	challengeOK    bool
	preferenceOK   bool
	panicChallenge bool

	challenges  int
	preferences []bool
}

func (g *fakeGate) IsAvailable(context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.available
}

func (g *fakeGate) Challenge(context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.challenges++
	if g.panicChallenge {
		panic("sensor gone")
	}
	return g.challengeOK
}

func (g *fakeGate) SetPreference(_ context.Context, enabled bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.preferences = append(g.preferences, enabled)
	return g.preferenceOK
}

func (g *fakeGate) challengeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.challenges
}
