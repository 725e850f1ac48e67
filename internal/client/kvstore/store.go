package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ktech-edu/ktechhub/internal/logging"
)

// Store keeps JSON-encoded values in a Backend.
type Store struct {
	b   Backend
	log logging.Logger
}

// New wraps b. Read and write failures are logged through log before being
// returned.
func New(b Backend, log logging.Logger) *Store {
	return &Store{b: b, log: log.With("component", "kvstore")}
}

// Atomic reports whether SetMany and RemoveMany are all-or-nothing.
func (s *Store) Atomic() bool {
	_, ok := s.b.(Batcher)
	return ok
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error(ctx, "error encoding value", "key", key, "error", err)
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.b.Set(ctx, key, data); err != nil {
		s.log.Error(ctx, "error saving value", "key", key, "error", err)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get decodes the value stored under key into out.
//
// It returns an error wrapping ErrNotFound when the key is absent and
// ErrCorrupt when the stored bytes are not valid JSON for out.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	data, err := s.b.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	if err != nil {
		s.log.Error(ctx, "error reading value", "key", key, "error", err)
		return fmt.Errorf("get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn(ctx, "corrupt value", "key", key, "error", err)
		return fmt.Errorf("get %s: %w: %v", key, ErrCorrupt, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key succeeds.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.b.Delete(ctx, key); err != nil {
		s.log.Error(ctx, "error removing value", "key", key, "error", err)
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.b.Clear(ctx); err != nil {
		s.log.Error(ctx, "error clearing store", "error", err)
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// SetMany stores all values at once. With a Batcher backend the write is
// atomic; otherwise keys are written one by one and a failure may leave a
// prefix of them written.
func (s *Store) SetMany(ctx context.Context, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			s.log.Error(ctx, "error encoding value", "key", k, "error", err)
			return fmt.Errorf("encode %s: %w", k, err)
		}
		encoded[k] = data
	}

	batcher, ok := s.b.(Batcher)
	if !ok {
		for k, data := range encoded {
			if err := s.b.Set(ctx, k, data); err != nil {
				s.log.Error(ctx, "error saving value", "key", k, "error", err)
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		return nil
	}

	if err := batcher.SetMany(ctx, encoded); err != nil {
		s.log.Error(ctx, "error saving values", "count", len(encoded), "error", err)
		return fmt.Errorf("set many: %w", err)
	}
	return nil
}

// RemoveMany deletes all keys at once, atomically with a Batcher backend.
func (s *Store) RemoveMany(ctx context.Context, keys ...string) error {
	batcher, ok := s.b.(Batcher)
	if !ok {
		for _, k := range keys {
			if err := s.Remove(ctx, k); err != nil {
				return err
			}
		}
		return nil
	}

	if err := batcher.DeleteMany(ctx, keys); err != nil {
		s.log.Error(ctx, "error removing values", "keys", keys, "error", err)
		return fmt.Errorf("remove many: %w", err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.b.Close()
}
