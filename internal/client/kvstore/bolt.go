package kvstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.etcd.io/bbolt"
)

// boltBucket is the single bucket holding every key.
var boltBucket = []byte("kv")

// BoltBackend stores values in one bucket of a bbolt database file.
type BoltBackend struct {
	db *bbolt.DB
}

// OpenBolt opens the database at path, creating the file and bucket if
// needed. The file lock is awaited for at most one second.
func OpenBolt(path string) (*BoltBackend, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt bucket: %w", err)
	}

	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction.
		value = slices.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *BoltBackend) Set(ctx context.Context, key string, value []byte) error {
	return b.SetMany(ctx, map[string][]byte{key: value})
}

func (b *BoltBackend) Delete(ctx context.Context, key string) error {
	return b.DeleteMany(ctx, []string{key})
}

func (b *BoltBackend) Clear(ctx context.Context) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(boltBucket); err != nil {
			return fmt.Errorf("bolt delete bucket: %w", err)
		}
		_, err := tx.CreateBucket(boltBucket)
		return err
	})
}

func (b *BoltBackend) SetMany(ctx context.Context, values map[string][]byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(boltBucket)
		for k, v := range values {
			if err := bkt.Put([]byte(k), v); err != nil {
				return fmt.Errorf("bolt put %s: %w", k, err)
			}
		}
		return nil
	})
}

func (b *BoltBackend) DeleteMany(ctx context.Context, keys []string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(boltBucket)
		for _, k := range keys {
			if err := bkt.Delete([]byte(k)); err != nil {
				return fmt.Errorf("bolt delete %s: %w", k, err)
			}
		}
		return nil
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
