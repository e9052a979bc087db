// Package ledger owns a single user's stored transactions. Mutations are
// serialized; each one is followed by an asynchronous full-snapshot write
// to the key-value collaborator.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/jobs"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/jobs/inmemory"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv"
)

// DefaultKeyPrefix is prepended to the user identifier to form the storage key.
const DefaultKeyPrefix = "SavedTransactions_"

// ErrClosed is returned by mutations after Close.
var ErrClosed = errors.New("ledger is closed")

// Options configure a Store.
type Options struct {
	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string
	// Location is the calendar used to normalize dates. Defaults to time.Local.
	Location *time.Location
	// Logger receives persistence and load diagnostics.
	Logger zerolog.Logger
	// SaveRetries is how many times a failed snapshot write is retried.
	SaveRetries int
	// RetryBackoff overrides the delay before each retry.
	RetryBackoff func(attempt int) time.Duration
	// QueueSize bounds pending persistence jobs. Defaults to 64.
	QueueSize int
}

// Store is the canonical, insertion-ordered collection of a user's records.
type Store struct {
	mu      sync.RWMutex
	records []domain.Transaction
	version uint64
	closed  bool

	user string
	key  string
	loc  *time.Location
	log  zerolog.Logger

	persister *persister
	queue     *inmemory.Queue
	jobStore  *inmemory.Store
}

// Open loads the user's snapshot and starts the persistence worker.
// Missing or unreadable snapshots produce an empty ledger.
func Open(ctx context.Context, store kv.Store, user string, opts Options) (*Store, error) {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}

	key := kv.Key(opts.KeyPrefix, user)
	log := opts.Logger.With().Str("user_key", key).Logger()

	queueOpts := []inmemory.Option{}
	if opts.SaveRetries > 0 {
		queueOpts = append(queueOpts, inmemory.WithMaxRetries(opts.SaveRetries))
	}
	if opts.RetryBackoff != nil {
		queueOpts = append(queueOpts, inmemory.WithBackoff(opts.RetryBackoff))
	}
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(opts.QueueSize, jobStore, queueOpts...)

	s := &Store{
		user:      user,
		key:       key,
		loc:       opts.Location,
		log:       log,
		persister: &persister{kv: store, log: log},
		queue:     queue,
		jobStore:  jobStore,
	}
	s.records = s.load(ctx, store)

	if err := queue.Start(context.WithoutCancel(ctx), s.persister.handle); err != nil {
		return nil, fmt.Errorf("ledger.Open: start persistence worker: %w", err)
	}

	log.Info().Int("records", len(s.records)).Msg("Ledger loaded")
	return s, nil
}

// load reads the snapshot synchronously. Failures are logged, never returned.
func (s *Store) load(ctx context.Context, store kv.Store) []domain.Transaction {
	data, err := store.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []domain.Transaction{}
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read ledger snapshot, starting empty")
		return []domain.Transaction{}
	}

	records, err := domain.DecodeSnapshot(data, s.loc)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to decode ledger snapshot, starting empty")
		return []domain.Transaction{}
	}
	return records
}

// User returns the identity the ledger is namespaced by.
func (s *Store) User() string { return s.user }

// Key returns the storage key of the ledger's snapshot.
func (s *Store) Key() string { return s.key }

// Location returns the calendar used for date normalization.
func (s *Store) Location() *time.Location { return s.loc }

// Records returns a copy of the stored records in insertion order.
func (s *Store) Records() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

// Get returns the stored record with id.
func (s *Store) Get(id uuid.UUID) (domain.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.records, id); i >= 0 {
		return s.records[i].Clone(), true
	}
	return domain.Transaction{}, false
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Create appends tx and schedules a snapshot write. A zero id is replaced
// with a fresh one. No validation is performed.
func (s *Store) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	var created domain.Transaction
	err := s.Mutate(ctx, func(m *Tx) error {
		created = m.Create(tx)
		return nil
	})
	return created, err
}

// Update replaces the record with tx.ID. It reports whether a record matched;
// an unknown id is a silent no-op.
func (s *Store) Update(ctx context.Context, tx domain.Transaction) (bool, error) {
	var found bool
	err := s.Mutate(ctx, func(m *Tx) error {
		found = m.Update(tx)
		return nil
	})
	return found, err
}

// Delete removes the first record with id. It reports whether one matched.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var found bool
	err := s.Mutate(ctx, func(m *Tx) error {
		found = m.Delete(id)
		return nil
	})
	return found, err
}

// Mutate runs fn with exclusive access to the records. If fn changed
// anything and returned nil, the change is kept and a snapshot write is
// scheduled. If fn returns an error, the records are left as they were.
func (s *Store) Mutate(ctx context.Context, fn func(m *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	m := &Tx{records: s.records, loc: s.loc}
	if err := fn(m); err != nil {
		return err
	}
	if !m.dirty {
		return nil
	}
	s.records = m.records
	s.saveLocked(ctx)
	return nil
}

// Clear empties the ledger and removes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.records = []domain.Transaction{}
	s.version++
	s.publishLocked(ctx, &jobs.SnapshotJob{
		Type:    jobs.JobTypeDeleteSnapshot,
		Key:     s.key,
		Version: s.version,
	})
	s.log.Info().Msg("Ledger cleared")
	return nil
}

// SignOut clears the ledger and releases it; the store is unusable afterwards.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}
	return s.Close(ctx)
}

// saveLocked encodes the current records and enqueues the write.
// The caller must hold s.mu.
func (s *Store) saveLocked(ctx context.Context) {
	s.version++
	payload, err := domain.EncodeSnapshot(s.records)
	if err != nil {
		s.log.Error().Err(err).Uint64("version", s.version).Msg("Failed to encode ledger snapshot")
		return
	}
	s.publishLocked(ctx, &jobs.SnapshotJob{
		Type:    jobs.JobTypeSaveSnapshot,
		Key:     s.key,
		Version: s.version,
		Payload: payload,
	})
}

func (s *Store) publishLocked(ctx context.Context, job *jobs.SnapshotJob) {
	if err := s.queue.PublishSnapshot(context.WithoutCancel(ctx), job); err != nil {
		s.log.Error().Err(err).Uint64("version", job.Version).Str("type", string(job.Type)).Msg("Failed to schedule snapshot write")
	}
}

// Flush waits until all scheduled snapshot writes have finished.
func (s *Store) Flush(ctx context.Context) error {
	return s.queue.Flush(ctx)
}

// PersistenceStatus returns the most recent persistence job, if any.
func (s *Store) PersistenceStatus(ctx context.Context) (*jobs.SnapshotJob, bool) {
	list, err := s.jobStore.ListJobs(ctx, jobs.JobFilter{Key: s.key, Limit: 1})
	if err != nil || len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// Close rejects further mutations, waits for pending writes, and stops the
// persistence worker.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.queue.Flush(ctx); err != nil {
		s.log.Error().Err(err).Int("pending", s.queue.Pending()).Msg("Ledger closed with unwritten snapshots")
		_ = s.queue.Stop(ctx)
		return fmt.Errorf("ledger.Close: flush: %w", err)
	}
	if err := s.queue.Stop(ctx); err != nil {
		return fmt.Errorf("ledger.Close: stop worker: %w", err)
	}
	return nil
}

func indexOf(records []domain.Transaction, id uuid.UUID) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(records []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}
