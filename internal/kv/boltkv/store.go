// Package boltkv stores ledger snapshots in a local bbolt file.
package boltkv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv"
)

// BucketSnapshots holds one value per namespaced key.
const BucketSnapshots = "snapshots"

// Store is a kv.Store backed by a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the database at path and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("boltkv.Open: create data dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltkv.Open: open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketSnapshots))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("boltkv.Open: create bucket %s: %w", BucketSnapshots, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(BucketSnapshots)).Get([]byte(key))
		if v == nil {
			return kv.ErrNotFound
		}
		// v is only valid for the life of the transaction.
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketSnapshots)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("boltkv.Put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketSnapshots)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("boltkv.Delete %q: %w", key, err)
	}
	return nil
}

// Keys returns the stored keys starting with prefix, in byte order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketSnapshots)).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("boltkv.Keys: %w", err)
	}
	return keys, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

var (
	_ kv.Store  = (*Store)(nil)
	_ kv.Lister = (*Store)(nil)
)
