package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultBucket is the bbolt bucket used when none is given.
const DefaultBucket = "xwui"

// BoltBackend stores values in one bucket of a bbolt database file.
type BoltBackend struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens (creating if needed) the database at path and ensures
// the bucket exists.
func OpenBolt(path, bucket string) (*BoltBackend, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	b := &BoltBackend{db: db, bucket: []byte(bucket)}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(b.bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize bucket %s: %w", bucket, err)
	}
	return b, nil
}

// Name returns "bolt".
func (b *BoltBackend) Name() string { return "bolt" }

// Get returns the value for key.
func (b *BoltBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(b.bucket).Get([]byte(key)); v != nil {
			// v is only valid during the transaction
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

// Set stores value under key.
func (b *BoltBackend) Set(ctx context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), value)
	})
}

// Delete removes key.
func (b *BoltBackend) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key))
	})
}

// Keys returns the keys starting with prefix in byte order.
func (b *BoltBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	p := []byte(prefix)
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(b.bucket).Cursor()
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

// Close closes the database.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}
