package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var boltBucket = []byte("entries")

// BoltCache stores entries in a single bbolt database file.
// Values are msgpack-encoded entries carrying their expiry.
type BoltCache struct {
	db *bbolt.DB
}

// NewBoltCache opens (or creates) the database at path. Only one process can
// hold the file open; a second opener fails after a short timeout.
func NewBoltCache(path string) (Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	opts := *bbolt.DefaultOptions
	opts.Timeout = 2 * time.Second
	opts.FreelistType = bbolt.FreelistMapType

	db, err := bbolt.Open(path, 0644, &opts)
	if err != nil {
		return nil, fmt.Errorf("open bolt cache: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open bolt cache: %w", err)
	}
	return &BoltCache{db: db}, nil
}

type boltEntry struct {
	Data      []byte `msgpack:"d"`
	ExpiresAt int64  `msgpack:"e"`
}

// Get retrieves a value. Expired entries are removed and reported as a miss.
func (c *BoltCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry boltEntry
	var found bool
	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// raw is only valid inside the transaction; Unmarshal copies.
		if err := msgpack.Unmarshal(raw, &entry); err != nil {
			return nil
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	if entry.ExpiresAt != 0 && time.Now().UnixNano() > entry.ExpiresAt {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a value.
func (c *BoltCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := boltEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl).UnixNano()
	}
	raw, err := msgpack.Marshal(&entry)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), raw)
	})
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *BoltCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
}

// Close releases the database file.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

var _ Cache = (*BoltCache)(nil)
