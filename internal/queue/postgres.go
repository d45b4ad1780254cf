package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQueue implements the Queue interface using PostgreSQL
type PostgresQueue struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	config Config
}

// NewPostgresQueue creates a new PostgreSQL-backed queue
func NewPostgresQueue(pool *pgxpool.Pool, logger *slog.Logger, config Config) *PostgresQueue {
	return &PostgresQueue{
		pool:   pool,
		logger: logger,
		config: config,
	}
}

// Enqueue adds a new job to the queue
func (q *PostgresQueue) Enqueue(ctx context.Context, queueName, jobType string, payload map[string]interface{}, opts *EnqueueOptions) (*Job, error) {
	if opts == nil {
		opts = DefaultEnqueueOptions()
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	scheduledAt := time.Now()
	if opts.ScheduledAt != nil {
		scheduledAt = *opts.ScheduledAt
	} else if opts.Delay > 0 {
		scheduledAt = time.Now().Add(opts.Delay)
	}

	query := `
		INSERT INTO jobs (
			queue_name, job_type, payload,
			priority, max_attempts, scheduled_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	var jobID uuid.UUID
	var createdAt time.Time

	err = q.pool.QueryRow(ctx, query,
		queueName, jobType, payloadJSON,
		opts.Priority, opts.MaxAttempts, scheduledAt,
	).Scan(&jobID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	job := &Job{
		ID:           jobID,
		QueueName:    queueName,
		JobType:      jobType,
		Payload:      payload,
		Status:       JobStatusPending,
		Priority:     opts.Priority,
		MaxAttempts:  opts.MaxAttempts,
		AttemptCount: 0,
		ScheduledAt:  scheduledAt,
		CreatedAt:    createdAt,
	}

	q.logger.Debug("job enqueued",
		slog.String("job_id", jobID.String()),
		slog.String("queue", queueName),
		slog.String("type", jobType),
	)

	return job, nil
}

// Dequeue retrieves and locks the next available job
func (q *PostgresQueue) Dequeue(ctx context.Context, workerID string, opts *DequeueOptions) (*Job, error) {
	if opts == nil {
		opts = &DequeueOptions{}
	}

	queueFilter := ""
	if len(opts.QueueNames) > 0 {
		queueFilter = "AND queue_name = ANY($2)"
	}

	query := fmt.Sprintf(`
		UPDATE jobs
		SET
			status = 'processing',
			started_at = NOW(),
			attempt_count = attempt_count + 1,
			worker_id = $1
		WHERE id = (
			SELECT id
			FROM jobs
			WHERE status = 'pending'
			  AND scheduled_at <= NOW()
			  %s
			ORDER BY priority DESC, created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING
			id, queue_name, job_type, payload,
			status, priority, max_attempts, attempt_count,
			scheduled_at, created_at, started_at, completed_at,
			result, error_message, worker_id
	`, queueFilter)

	var row pgx.Row
	if len(opts.QueueNames) > 0 {
		row = q.pool.QueryRow(ctx, query, workerID, opts.QueueNames)
	} else {
		row = q.pool.QueryRow(ctx, query, workerID)
	}

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No jobs available
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	q.logger.Debug("job dequeued",
		slog.String("job_id", job.ID.String()),
		slog.String("queue", job.QueueName),
		slog.String("worker", workerID),
	)

	return job, nil
}

// Complete marks a job as successfully completed
func (q *PostgresQueue) Complete(ctx context.Context, jobID uuid.UUID, result map[string]interface{}) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		UPDATE jobs
		SET
			status = 'completed',
			completed_at = NOW(),
			result = $1
		WHERE id = $2
	`

	if _, err := q.pool.Exec(ctx, query, resultJSON, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	q.logger.Debug("job completed",
		slog.String("job_id", jobID.String()),
	)

	return nil
}

// Fail marks a job as failed and schedules a retry if attempts remain
func (q *PostgresQueue) Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	query := `
		UPDATE jobs
		SET
			status = CASE
				WHEN attempt_count >= max_attempts THEN 'failed'
				ELSE 'pending'
			END,
			error_message = $1,
			scheduled_at = CASE
				WHEN attempt_count < max_attempts
				THEN NOW() + (INTERVAL '1 minute' * POW(2, attempt_count))
				ELSE scheduled_at
			END,
			completed_at = CASE
				WHEN attempt_count >= max_attempts THEN NOW()
				ELSE NULL
			END
		WHERE id = $2
		RETURNING status, attempt_count, max_attempts
	`

	var status string
	var attemptCount, maxAttempts int

	err := q.pool.QueryRow(ctx, query, errMsg, jobID).Scan(&status, &attemptCount, &maxAttempts)
	if err != nil {
		return fmt.Errorf("failed to mark job as failed: %w", err)
	}

	if status == string(JobStatusFailed) {
		q.logger.Warn("job permanently failed",
			slog.String("job_id", jobID.String()),
			slog.Int("attempts", attemptCount),
			slog.String("error", errMsg),
		)
	} else {
		backoff := time.Duration(1<<uint(attemptCount)) * time.Minute
		q.logger.Debug("job failed, will retry",
			slog.String("job_id", jobID.String()),
			slog.Int("attempt", attemptCount),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("retry_in", backoff),
		)
	}

	return nil
}

// GetJob retrieves a job by ID
func (q *PostgresQueue) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	query := `
		SELECT
			id, queue_name, job_type, payload,
			status, priority, max_attempts, attempt_count,
			scheduled_at, created_at, started_at, completed_at,
			result, error_message, worker_id
		FROM jobs
		WHERE id = $1
	`

	job, err := scanJob(q.pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job not found: %s", jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// Delete removes a job from the queue
func (q *PostgresQueue) Delete(ctx context.Context, jobID uuid.UUID) error {
	if _, err := q.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, jobID); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// Close is a no-op for the PostgreSQL queue; the pool is owned by the caller.
func (q *PostgresQueue) Close() error {
	return nil
}

// scanJob reads a job row in the column order used by every query above.
func scanJob(row pgx.Row) (*Job, error) {
	var (
		job         Job
		payloadJSON []byte
		resultJSON  []byte
		startedAt   pgtype.Timestamptz
		completedAt pgtype.Timestamptz
		errMsg      pgtype.Text
		workerID    pgtype.Text
	)

	err := row.Scan(
		&job.ID, &job.QueueName, &job.JobType, &payloadJSON,
		&job.Status, &job.Priority, &job.MaxAttempts, &job.AttemptCount,
		&job.ScheduledAt, &job.CreatedAt, &startedAt, &completedAt,
		&resultJSON, &errMsg, &workerID,
	)
	if err != nil {
		return nil, err
	}

	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &job.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}
	if len(resultJSON) > 0 {
		if err := json.Unmarshal(resultJSON, &job.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	job.ErrorMessage = errMsg.String
	job.WorkerID = workerID.String

	return &job, nil
}
