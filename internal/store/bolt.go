package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/citadel/internal/domain"
)

var bucketLocal = []byte("local")

// BoltBackend implements Backend using BoltDB.
// Bolt holds an exclusive file lock, so only one process can open a
// database at a time; use FileBackend when several sessions run side by side.
type BoltBackend struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache  map[string]string
	closed bool
}

// OpenBolt opens (or creates) the database at path.
// An empty path gives a memory-only backend with no persistence.
func OpenBolt(path string) (*BoltBackend, error) {
	if path == "" {
		return &BoltBackend{cache: make(map[string]string)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLocal)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltBackend{db: db, cache: make(map[string]string)}, nil
}

func (b *BoltBackend) Load(key string) (string, bool, error) {
	// Check memory cache first
	b.mu.RLock()
	if v, ok := b.cache[key]; ok {
		b.mu.RUnlock()
		return v, true, nil
	}
	b.mu.RUnlock()

	if b.db == nil {
		return "", false, nil
	}

	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketLocal)
		if bucket == nil {
			return nil
		}
		// Get's slice is only valid for the life of the transaction
		if v := bucket.Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}

	// Promote to memory cache
	b.mu.Lock()
	b.cache[key] = value
	b.mu.Unlock()

	return value, true, nil
}

func (b *BoltBackend) Save(key, value string) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return domain.ErrStorageClosed
	}
	b.cache[key] = value
	b.mu.Unlock()

	if b.db == nil {
		return nil // Memory-only mode
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLocal).Put([]byte(key), []byte(value))
	})
}

func (b *BoltBackend) Delete(key string) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return domain.ErrStorageClosed
	}
	delete(b.cache, key)
	b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket(bucketLocal); bucket != nil {
			return bucket.Delete([]byte(key))
		}
		return nil
	})
}

func (b *BoltBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
