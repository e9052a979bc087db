package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/jobs"
)

// Queue is an in-memory implementation of job publisher and consumer.
// A single worker processes jobs in publish order, so writes for the same
// key are applied in the order they were produced.
type Queue struct {
	jobChan   chan *jobs.SnapshotJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.JobStore
	closed    bool

	// pending counts published jobs not yet finished, including retries
	// waiting on their backoff timer. idle is closed whenever pending is zero.
	pendingMu sync.Mutex
	pending   int
	idle      chan struct{}

	maxRetries int
	backoff    func(attempt int) time.Duration
}

// Option configures a Queue.
type Option func(*Queue)

// WithMaxRetries sets the default retry budget for jobs that do not carry one.
func WithMaxRetries(n int) Option {
	return func(q *Queue) { q.maxRetries = n }
}

// WithBackoff sets the delay before the given retry attempt.
func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(q *Queue) { q.backoff = fn }
}

// NewQueue creates a new in-memory job queue.
// bufferSize determines how many jobs can be queued before PublishSnapshot blocks.
func NewQueue(bufferSize int, store jobs.JobStore, opts ...Option) *Queue {
	idle := make(chan struct{})
	close(idle)
	q := &Queue{
		idle:       idle,
		jobChan:    make(chan *jobs.SnapshotJob, bufferSize),
		closeChan:  make(chan struct{}),
		store:      store,
		maxRetries: 3,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// PublishSnapshot implements the Publisher interface.
func (q *Queue) PublishSnapshot(ctx context.Context, job *jobs.SnapshotJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return jobs.ErrQueueClosed
	}

	if job.JobID == "" {
		job.JobID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = q.maxRetries
	}

	if q.store != nil {
		if err := q.store.SaveJob(ctx, job); err != nil {
			return err
		}
	}

	q.begin()
	select {
	case q.jobChan <- job:
		return nil
	case <-ctx.Done():
		q.finish()
		return ctx.Err()
	}
}

// Start implements the Consumer interface.
func (q *Queue) Start(ctx context.Context, handler jobs.JobHandler) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return jobs.ErrQueueClosed
	}
	q.mu.RUnlock()

	q.wg.Add(1)
	go q.worker(ctx, handler)
	return nil
}

// worker processes jobs until the queue is stopped and drained.
func (q *Queue) worker(ctx context.Context, handler jobs.JobHandler) {
	defer q.wg.Done()

	for {
		select {
		case job := <-q.jobChan:
			q.processJob(ctx, job, handler)
		case <-q.closeChan:
			for {
				select {
				case job := <-q.jobChan:
					q.processJob(ctx, job, handler)
				default:
					return
				}
			}
		}
	}
}

// processJob executes a single job with retry logic.
func (q *Queue) processJob(ctx context.Context, job *jobs.SnapshotJob, handler jobs.JobHandler) {
	job.Status = jobs.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	q.record(ctx, job)

	err := handler(ctx, job)

	completedAt := time.Now()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Error = err.Error()

		if job.RetryCount < job.MaxRetries && !q.isClosed() {
			job.RetryCount++
			job.Status = jobs.JobStatusRetrying
			q.record(ctx, job)

			time.AfterFunc(q.backoff(job.RetryCount), func() {
				job.Status = jobs.JobStatusPending
				job.StartedAt = nil
				job.CompletedAt = nil
				if !q.requeue(job) {
					job.Status = jobs.JobStatusFailed
					q.record(context.Background(), job)
					q.finish()
				}
			})
			return
		}
		job.Status = jobs.JobStatusFailed
	} else if job.Status == jobs.JobStatusRunning {
		job.Status = jobs.JobStatusCompleted
		job.Error = ""
	}

	q.record(ctx, job)
	q.finish()
}

// requeue puts a retried job back without counting it as a new publish.
func (q *Queue) requeue(job *jobs.SnapshotJob) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.jobChan <- job:
		return true
	default:
		return false
	}
}

func (q *Queue) record(ctx context.Context, job *jobs.SnapshotJob) {
	if q.store != nil {
		_ = q.store.SaveJob(ctx, job)
	}
}

func (q *Queue) isClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *Queue) begin() {
	q.pendingMu.Lock()
	defer q.pendingMu.Unlock()
	if q.pending == 0 {
		q.idle = make(chan struct{})
	}
	q.pending++
}

func (q *Queue) finish() {
	q.pendingMu.Lock()
	defer q.pendingMu.Unlock()
	q.pending--
	if q.pending == 0 {
		close(q.idle)
	}
}

// Pending returns the number of published jobs that have not finished.
func (q *Queue) Pending() int {
	q.pendingMu.Lock()
	defer q.pendingMu.Unlock()
	return q.pending
}

// Flush blocks until every published job has finished, including retries.
func (q *Queue) Flush(ctx context.Context) error {
	q.pendingMu.Lock()
	idle := q.idle
	q.pendingMu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop implements the Consumer interface.
// Jobs already queued are processed before the worker exits; pending
// retries are abandoned and marked failed.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements the Publisher interface.
func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

// Ensure Queue implements both Publisher and Consumer interfaces.
var _ jobs.Publisher = (*Queue)(nil)
var _ jobs.Consumer = (*Queue)(nil)
