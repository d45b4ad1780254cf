package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockQueue_EnqueueDequeue(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()

	job, err := q.Enqueue(ctx, QueueDefault, JobTypeWelcomeEmail,
		map[string]interface{}{"email": "a@x.com", "name": "A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.MaxAttempts)

	got, err := q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, JobStatusProcessing, got.Status)
	assert.Equal(t, 1, got.AttemptCount)
	assert.Equal(t, "worker-1", got.WorkerID)

	// Nothing else is pending.
	empty, err := q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestMockQueue_DequeueHonorsSchedule(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()

	_, err := q.Enqueue(ctx, QueueDefault, JobTypeWelcomeEmail, nil,
		&EnqueueOptions{MaxAttempts: 1, Delay: time.Hour})
	require.NoError(t, err)

	got, err := q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	assert.Nil(t, got, "future-scheduled job must not be dequeued")
}

func TestMockQueue_CompleteAndFail(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()

	job, err := q.Enqueue(ctx, QueueDefault, JobTypeWelcomeEmail, nil, nil)
	require.NoError(t, err)
	_, err = q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)

	require.NoError(t, q.Complete(ctx, job.ID, map[string]interface{}{"ok": true}))
	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	// Failing a single-attempt job is terminal.
	job2, err := q.Enqueue(ctx, QueueDefault, JobTypeWelcomeEmail, nil,
		&EnqueueOptions{MaxAttempts: 1})
	require.NoError(t, err)
	_, err = q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)
	require.NoError(t, q.Fail(ctx, job2.ID, "smtp timeout"))

	got2, err := q.GetJob(ctx, job2.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, got2.Status)
	assert.Equal(t, "smtp timeout", got2.ErrorMessage)
}

func TestMockQueue_FailReschedulesWhileAttemptsRemain(t *testing.T) {
	q := NewMockQueue()
	ctx := context.Background()

	job, err := q.Enqueue(ctx, QueueDefault, JobTypeWelcomeEmail, nil,
		&EnqueueOptions{MaxAttempts: 3})
	require.NoError(t, err)
	_, err = q.Dequeue(ctx, "worker-1", nil)
	require.NoError(t, err)

	require.NoError(t, q.Fail(ctx, job.ID, "transient"))

	got, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, got.Status)
	assert.True(t, got.ScheduledAt.After(time.Now()), "retry must be scheduled in the future")
}
