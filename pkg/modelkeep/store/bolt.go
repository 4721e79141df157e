package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

// blobBucket is the single bucket holding all blobs.
var blobBucket = []byte("blobs")

// BoltStore persists blobs to a bbolt database file.
// It is suitable for single-process production use.
type BoltStore struct {
	db     *bbolt.DB
	mu     sync.RWMutex
	closed bool
}

// NewBoltStore creates a new bbolt blob store at path.
// The database file is created if it does not exist.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blobBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Exists implements Store.
func (b *BoltStore) Exists(ctx context.Context, path string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return false, ErrStoreClosed
	}

	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(blobBucket).Get([]byte(path)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("stat blob: %w", err)
	}
	return found, nil
}

// List implements Store.
func (b *BoltStore) List(ctx context.Context, dir string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrStoreClosed
	}

	prefix := []byte("")
	if dir != "" {
		prefix = []byte(dir + "/")
	}

	var names []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(blobBucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if name, ok := childName(string(k), dir); ok {
				names = append(names, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	return names, nil
}

// Read implements Store.
func (b *BoltStore) Read(ctx context.Context, path string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(blobBucket).Get([]byte(path))
		if v == nil {
			return ErrNotFound
		}
		// Copy out: bucket memory is only valid inside the transaction
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err == ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

// Write implements Store.
func (b *BoltStore) Write(ctx context.Context, path string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrStoreClosed
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(blobBucket).Put([]byte(path), data)
	})
	if err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

// Delete implements Store.
func (b *BoltStore) Delete(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrStoreClosed
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(blobBucket).Delete([]byte(path))
	})
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Close implements Store.
func (b *BoltStore) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	return b.db.Close()
}
