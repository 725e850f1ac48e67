package session

import (
	"context"
	"fmt"

	"github.com/ktech-edu/ktechhub/internal/client/kvstore"
	"github.com/ktech-edu/ktechhub/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Store keys.
const (
	KeyToken     = "auth_token"
	KeyProfile   = "user_data"
	KeyBiometric = "biometric_enabled"
	KeyPending   = "session_pending"
)

// Store reads and writes the session record in a key-value store.
type Store struct {
	kv  *kvstore.Store
	log logging.Logger
}

func NewStore(kv *kvstore.Store, log logging.Logger) *Store {
	return &Store{kv: kv, log: log.With("component", "session")}
}

// Save writes token and profile as one record.
func (s *Store) Save(ctx context.Context, token string, profile UserProfile) error {
	if profile.StudentID == "" {
		return fmt.Errorf("save session: %w: empty student id", ErrInvalidProfile)
	}

	if s.kv.Atomic() {
		err := s.kv.SetMany(ctx, map[string]any{KeyToken: token, KeyProfile: profile})
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	}

	if err := s.kv.Set(ctx, KeyPending, true); err != nil {
		return fmt.Errorf("save session: mark pending: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error { return s.kv.Set(ctx, KeyToken, token) })
	g.Go(func() error { return s.kv.Set(ctx, KeyProfile, profile) })
	if err := g.Wait(); err != nil {
		s.log.Warn(ctx, "session save interrupted, record left pending", "error", err)
		return fmt.Errorf("save session: %w", err)
	}

	if err := s.kv.Remove(ctx, KeyPending); err != nil {
		return fmt.Errorf("save session: clear pending: %w", err)
	}
	return nil
}

// Load reads the record. Missing or undecodable fields are left empty; an
// error is returned only when the store itself failed, in which case the
// returned Record is empty.
func (s *Store) Load(ctx context.Context) (Record, error) {
	var (
		token      string
		profile    UserProfile
		pending    bool
		hasProfile bool
	)

	var g errgroup.Group
	g.Go(func() error {
		_, err := s.read(ctx, KeyToken, &token)
		return err
	})
	g.Go(func() error {
		ok, err := s.read(ctx, KeyProfile, &profile)
		hasProfile = ok && profile.StudentID != ""
		return err
	})
	g.Go(func() error {
		_, err := s.read(ctx, KeyPending, &pending)
		return err
	})
	if err := g.Wait(); err != nil {
		return Record{}, fmt.Errorf("load session: %w", err)
	}

	rec := Record{Token: token, Partial: pending}
	if hasProfile {
		rec.Profile = &profile
	}
	return rec, nil
}

// read decodes key into out and reports whether a usable value was found.
// Absent and corrupt values are not errors.
func (s *Store) read(ctx context.Context, key string, out any) (bool, error) {
	err := s.kv.Get(ctx, key, out)
	if err == nil {
		return true, nil
	}
	if kvstore.IsAbsent(err) {
		return false, nil
	}
	return false, err
}

// Clear removes token, profile and any pending marker. The biometric
// preference is kept.
func (s *Store) Clear(ctx context.Context) error {
	if s.kv.Atomic() {
		if err := s.kv.RemoveMany(ctx, KeyToken, KeyProfile, KeyPending); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}

	var g errgroup.Group
	g.Go(func() error { return s.kv.Remove(ctx, KeyToken) })
	g.Go(func() error { return s.kv.Remove(ctx, KeyProfile) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	if err := s.kv.Remove(ctx, KeyPending); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SetBiometricEnabled stores the biometric-unlock preference.
func (s *Store) SetBiometricEnabled(ctx context.Context, enabled bool) error {
	if err := s.kv.Set(ctx, KeyBiometric, enabled); err != nil {
		return fmt.Errorf("save biometric preference: %w", err)
	}
	return nil
}

// IsBiometricEnabled reports whether the stored preference is exactly true.
// Absent and malformed values read as false without error.
func (s *Store) IsBiometricEnabled(ctx context.Context) (bool, error) {
	var v any
	ok, err := s.read(ctx, KeyBiometric, &v)
	if err != nil {
		return false, fmt.Errorf("read biometric preference: %w", err)
	}
	if !ok {
		return false, nil
	}

	enabled, isBool := v.(bool)
	return isBool && enabled, nil
}
