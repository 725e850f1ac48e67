package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"sync"
)

// filePerm is the mode of the store file; it may hold a session token.
const filePerm fs.FileMode = 0o600

// FileBackend keeps every value in one JSON document. Each mutation rewrites
// the whole document through an atomic replace, so the file is always either
// the old or the new version.
type FileBackend struct {
	mu   sync.RWMutex
	path string
	data map[string][]byte
}

// OpenFile loads the document at path. A missing file is an empty store.
func OpenFile(path string) (*FileBackend, error) {
	f := &FileBackend{path: path, data: make(map[string][]byte)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return f, nil
}

func (f *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (f *FileBackend) Set(ctx context.Context, key string, value []byte) error {
	return f.SetMany(ctx, map[string][]byte{key: value})
}

func (f *FileBackend) Delete(ctx context.Context, key string) error {
	return f.DeleteMany(ctx, []string{key})
}

func (f *FileBackend) Clear(ctx context.Context) error {
	return f.mutate(func(next map[string][]byte) {
		clear(next)
	})
}

func (f *FileBackend) SetMany(ctx context.Context, values map[string][]byte) error {
	return f.mutate(func(next map[string][]byte) {
		for k, v := range values {
			next[k] = slices.Clone(v)
		}
	})
}

func (f *FileBackend) DeleteMany(ctx context.Context, keys []string) error {
	return f.mutate(func(next map[string][]byte) {
		for _, k := range keys {
			delete(next, k)
		}
	})
}

func (f *FileBackend) Close() error { return nil }

// mutate applies change to a copy of the data, persists the copy and only
// then makes it current, so a failed write leaves memory matching the disk.
func (f *FileBackend) mutate(change func(next map[string][]byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := maps.Clone(f.data)
	change(next)

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	if err := writeFile(f.path, raw, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}

	f.data = next
	return nil
}
