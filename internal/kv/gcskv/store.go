// Package gcskv stores ledger snapshots as Google Cloud Storage objects.
package gcskv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv"
)

const contentType = "application/json"

// Store is a kv.Store backed by objects in a single bucket.
// Each key maps to the object <folder>/<key>.json.
type Store struct {
	client *storage.Client
	bucket string
	folder string
}

// New creates a storage client. Application Default Credentials are used
// unless credentialsFile is set.
func New(ctx context.Context, bucket, folder, credentialsFile string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcskv.New: bucket is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcskv.New: create storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket, folder: trimFolder(folder)}, nil
}

func trimFolder(folder string) string {
	return strings.Trim(folder, "/")
}

// ObjectName is the object path a key is stored under.
func (s *Store) ObjectName(key string) string {
	return path.Join(s.folder, key+".json")
}

func (s *Store) keyFromObject(name string) string {
	name = strings.TrimSuffix(name, ".json")
	if s.folder != "" {
		name = strings.TrimPrefix(name, s.folder+"/")
	}
	return name
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.ObjectName(key)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gcskv.Get: open object reader %s: %w", s.ObjectName(key), err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcskv.Get: read object %s: %w", s.ObjectName(key), err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(s.ObjectName(key)).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcskv.Put: write object %s: %w", s.ObjectName(key), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcskv.Put: finalize upload %s: %w", s.ObjectName(key), err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(s.ObjectName(key)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcskv.Delete: %s: %w", s.ObjectName(key), err)
	}
	return nil
}

// Keys lists stored keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	objPrefix := strings.TrimSuffix(s.ObjectName(prefix), ".json")
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: objPrefix})

	var keys []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcskv.Keys: iter next: %w", err)
		}
		if !strings.HasSuffix(attrs.Name, ".json") {
			continue
		}
		keys = append(keys, s.keyFromObject(attrs.Name))
	}
	return keys, nil
}

// Close closes the storage client.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var (
	_ kv.Store  = (*Store)(nil)
	_ kv.Lister = (*Store)(nil)
)
