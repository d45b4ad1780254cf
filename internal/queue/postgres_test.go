package queue

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the database named by DATABASE_URL. The schema must
// already be migrated. Each test uses its own queue name so runs do not
// interfere with each other or with a live queue.
func setupTestDB(t *testing.T) (*pgxpool.Pool, string, func()) {
	t.Helper()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set, skipping integration tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	queueName := fmt.Sprintf("test_%s", uuid.New().String())

	cleanup := func() {
		_, _ = pool.Exec(ctx, "DELETE FROM jobs WHERE queue_name = $1", queueName)
		pool.Close()
	}

	return pool, queueName, cleanup
}

func newTestQueue(pool *pgxpool.Pool) *PostgresQueue {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewPostgresQueue(pool, logger, DefaultConfig())
}

func TestPostgresQueue_EnqueueDequeue(t *testing.T) {
	pool, queueName, cleanup := setupTestDB(t)
	defer cleanup()

	q := newTestQueue(pool)
	ctx := context.Background()

	payload := map[string]interface{}{"email": "amira@example.org", "name": "Amira"}
	job, err := q.Enqueue(ctx, queueName, JobTypeWelcomeEmail, payload, nil)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.MaxAttempts)

	dequeued, err := q.Dequeue(ctx, "worker-1", &DequeueOptions{QueueNames: []string{queueName}})
	require.NoError(t, err)
	require.NotNil(t, dequeued)
	assert.Equal(t, job.ID, dequeued.ID)
	assert.Equal(t, JobStatusProcessing, dequeued.Status)
	assert.Equal(t, 1, dequeued.AttemptCount)
	assert.Equal(t, "worker-1", dequeued.WorkerID)
	assert.Equal(t, "amira@example.org", dequeued.Payload["email"])

	// The queue is drained now.
	none, err := q.Dequeue(ctx, "worker-1", &DequeueOptions{QueueNames: []string{queueName}})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPostgresQueue_CompleteJob(t *testing.T) {
	pool, queueName, cleanup := setupTestDB(t)
	defer cleanup()

	q := newTestQueue(pool)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, queueName, JobTypeWelcomeEmail, map[string]interface{}{"email": "a@x.com"}, nil)
	require.NoError(t, err)

	_, err = q.Dequeue(ctx, "worker-1", &DequeueOptions{QueueNames: []string{queueName}})
	require.NoError(t, err)

	err = q.Complete(ctx, job.ID, map[string]interface{}{"to": "a@x.com"})
	require.NoError(t, err)

	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, "a@x.com", got.Result["to"])
}

func TestPostgresQueue_FailIsTerminalOnSingleAttempt(t *testing.T) {
	pool, queueName, cleanup := setupTestDB(t)
	defer cleanup()

	q := newTestQueue(pool)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, queueName, JobTypeWelcomeEmail, map[string]interface{}{"email": "a@x.com"}, nil)
	require.NoError(t, err)

	_, err = q.Dequeue(ctx, "worker-1", &DequeueOptions{QueueNames: []string{queueName}})
	require.NoError(t, err)

	err = q.Fail(ctx, job.ID, "provider unavailable")
	require.NoError(t, err)

	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, got.Status)
	assert.Equal(t, "provider unavailable", got.ErrorMessage)
	assert.Equal(t, 1, got.AttemptCount)
}

func TestPostgresQueue_FailReschedulesWhileAttemptsRemain(t *testing.T) {
	pool, queueName, cleanup := setupTestDB(t)
	defer cleanup()

	q := newTestQueue(pool)
	ctx := context.Background()

	opts := &EnqueueOptions{MaxAttempts: 3}
	job, err := q.Enqueue(ctx, queueName, JobTypeWelcomeEmail, map[string]interface{}{"email": "a@x.com"}, opts)
	require.NoError(t, err)

	_, err = q.Dequeue(ctx, "worker-1", &DequeueOptions{QueueNames: []string{queueName}})
	require.NoError(t, err)

	err = q.Fail(ctx, job.ID, "timeout")
	require.NoError(t, err)

	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, got.Status)
	assert.True(t, got.ScheduledAt.After(time.Now()))
}

func TestPostgresQueue_DequeueHonorsSchedule(t *testing.T) {
	pool, queueName, cleanup := setupTestDB(t)
	defer cleanup()

	q := newTestQueue(pool)
	ctx := context.Background()

	opts := &EnqueueOptions{Delay: time.Hour, MaxAttempts: 1}
	_, err := q.Enqueue(ctx, queueName, JobTypeWelcomeEmail, map[string]interface{}{"email": "a@x.com"}, opts)
	require.NoError(t, err)

	job, err := q.Dequeue(ctx, "worker-1", &DequeueOptions{QueueNames: []string{queueName}})
	require.NoError(t, err)
	assert.Nil(t, job)
}
