// Package queue provides a small PostgreSQL-backed job queue with a worker
// pool. Registration uses it to dispatch the welcome email after the
// subscriber row is committed, keeping delivery failures out of the
// registration's failure scope.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a job in the queue
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a unit of work in the queue
type Job struct {
	ID           uuid.UUID
	QueueName    string
	JobType      string
	Payload      map[string]interface{}
	Status       JobStatus
	Priority     int
	MaxAttempts  int
	AttemptCount int
	ScheduledAt  time.Time
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	Result       map[string]interface{}
	ErrorMessage string
	WorkerID     string
}

// EnqueueOptions allows customization when enqueuing a job
type EnqueueOptions struct {
	Priority    int           // Higher = more important, default 0
	MaxAttempts int           // Maximum attempts, default 1
	ScheduledAt *time.Time    // When to run the job, default NOW
	Delay       time.Duration // Alternative to ScheduledAt: delay from now
}

// DequeueOptions configures how jobs are dequeued
type DequeueOptions struct {
	QueueNames []string // Which queues to check (empty = all queues)
}

// Queue defines the interface for job queue operations
type Queue interface {
	// Enqueue adds a new job to the specified queue
	Enqueue(ctx context.Context, queueName, jobType string, payload map[string]interface{}, opts *EnqueueOptions) (*Job, error)

	// Dequeue retrieves and locks the next available job for processing.
	// Returns nil if no jobs are available.
	Dequeue(ctx context.Context, workerID string, opts *DequeueOptions) (*Job, error)

	// Complete marks a job as successfully completed with results
	Complete(ctx context.Context, jobID uuid.UUID, result map[string]interface{}) error

	// Fail marks a job as failed. The job is rescheduled with backoff
	// while attempts remain; with MaxAttempts 1 the failure is terminal.
	Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error

	// GetJob retrieves a job by ID
	GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error)

	// Delete removes a job from the queue
	Delete(ctx context.Context, jobID uuid.UUID) error

	// Close gracefully shuts down the queue.
	Close() error
}

// Config holds configuration for queue implementations
type Config struct {
	WorkerCount     int           // Number of concurrent workers
	PollInterval    time.Duration // How often to poll for new jobs
	JobTimeout      time.Duration // Timeout for a single job execution
	ShutdownTimeout time.Duration // How long to wait for graceful shutdown
}

// DefaultConfig returns sensible queue defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     2,
		PollInterval:    time.Second,
		JobTimeout:      30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// DefaultEnqueueOptions returns sensible defaults for enqueuing jobs.
// MaxAttempts is 1: sends are single-attempt, a failed delivery is logged
// and dropped rather than retried.
func DefaultEnqueueOptions() *EnqueueOptions {
	return &EnqueueOptions{
		Priority:    0,
		MaxAttempts: 1,
	}
}

// Queue and job names used by the service.
const (
	QueueDefault = "default"

	JobTypeWelcomeEmail = "welcome_email"
)
