package jobs

import (
	"context"
	"errors"
	"time"
)

// ErrQueueClosed is returned when publishing to a stopped queue.
var ErrQueueClosed = errors.New("queue is closed")

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeSaveSnapshot writes a full ledger snapshot under a key.
	JobTypeSaveSnapshot JobType = "save_snapshot"
	// JobTypeDeleteSnapshot removes the snapshot stored under a key.
	JobTypeDeleteSnapshot JobType = "delete_snapshot"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
	// JobStatusSuperseded indicates a newer write made the job obsolete.
	JobStatusSuperseded JobStatus = "superseded"
)

// SnapshotJob carries one persistence write for a ledger key.
type SnapshotJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Type is save or delete.
	Type JobType `json:"type"`

	// Key is the namespaced key in the key-value store.
	Key string `json:"key"`

	// Version is the ledger mutation counter the payload was taken at.
	Version uint64 `json:"version"`

	// Payload is the encoded snapshot. Empty for deletes.
	Payload []byte `json:"-"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *SnapshotJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *SnapshotJob) GetType() JobType {
	return j.Type
}

// GetStatus implements the Job interface.
func (j *SnapshotJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher enqueues persistence jobs.
type Publisher interface {
	// PublishSnapshot enqueues a save or delete job.
	PublishSnapshot(ctx context.Context, job *SnapshotJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer processes queued jobs.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops accepting jobs, processes what is already queued,
	// and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job.
// It should return an error if the job failed and should be retried.
type JobHandler func(ctx context.Context, job Job) error

// JobStore records job state so persistence health can be inspected.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *SnapshotJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*SnapshotJob, error)

	// ListJobs retrieves jobs with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*SnapshotJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Key filters jobs by ledger key.
	Key string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int
}
