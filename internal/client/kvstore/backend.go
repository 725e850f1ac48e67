package kvstore

import (
	"context"
	"fmt"
)

// Backend stores raw values under string keys.
//
// Get returns ErrNotFound when the key is absent. Delete of an absent key is
// not an error. Clear removes every key the backend owns.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Batcher is implemented by backends that can apply several writes or
// deletes atomically.
type Batcher interface {
	SetMany(ctx context.Context, values map[string][]byte) error
	DeleteMany(ctx context.Context, keys []string) error
}

// Kind names a Backend implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindBolt   Kind = "bolt"
	KindFile   Kind = "file"
	KindRedis  Kind = "redis"
	KindMemory Kind = "memory"
)

// FileBased reports whether the backend keeps its data in a local file whose
// name is resolved against the data directory.
func (k Kind) FileBased() bool {
	switch k {
	case KindSQLite, KindBolt, KindFile:
		return true
	default:
		return false
	}
}

// DefaultDSN is the location used when none is configured.
func (k Kind) DefaultDSN() string {
	switch k {
	case KindSQLite:
		return "kv.db"
	case KindBolt:
		return "kv.bolt"
	case KindFile:
		return "kv.json"
	case KindRedis:
		return "redis://127.0.0.1:6379/0"
	default:
		return ""
	}
}

// Open constructs the backend of the given kind. dsn is a file path for
// file-based kinds and a redis:// URL for KindRedis; it is ignored for
// KindMemory.
func Open(ctx context.Context, kind Kind, dsn string) (Backend, error) {
	if dsn == "" {
		dsn = kind.DefaultDSN()
	}

	switch kind {
	case KindSQLite:
		return OpenSQLite(ctx, dsn)
	case KindBolt:
		return OpenBolt(dsn)
	case KindFile:
		return OpenFile(dsn)
	case KindRedis:
		return OpenRedis(ctx, dsn)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, string(kind))
	}
}
