package queue

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWorkerPool_RegisterHandler(t *testing.T) {
	pool := NewWorkerPool(NewMockQueue(), testLogger(), DefaultConfig())

	handler := func(ctx context.Context, job *Job) (map[string]interface{}, error) {
		return map[string]interface{}{"status": "ok"}, nil
	}

	pool.RegisterHandler("test_job", handler)

	registeredHandler, exists := pool.GetHandler("test_job")
	assert.True(t, exists)
	assert.NotNil(t, registeredHandler)
}

func TestWorkerPool_StartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkerCount = 2

	pool := NewWorkerPool(NewMockQueue(), testLogger(), cfg)

	ctx := context.Background()

	err := pool.Start(ctx, []string{"test_queue"})
	require.NoError(t, err)

	// Starting again should error
	err = pool.Start(ctx, []string{"test_queue"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already started")

	err = pool.Stop()
	require.NoError(t, err)

	// Stopping again should error
	err = pool.Stop()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestWorkerPool_ProcessJob_Success(t *testing.T) {
	mockQueue := NewMockQueue()
	cfg := DefaultConfig()
	cfg.WorkerCount = 1
	cfg.PollInterval = 10 * time.Millisecond

	pool := NewWorkerPool(mockQueue, testLogger(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var mu sync.Mutex
	var processedJob *Job

	handler := func(ctx context.Context, job *Job) (map[string]interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		processedJob = job
		return map[string]interface{}{"result": "success"}, nil
	}

	pool.RegisterHandler("test_job", handler)

	job, err := mockQueue.Enqueue(ctx, "test_queue", "test_job",
		map[string]interface{}{"data": "test"}, nil)
	require.NoError(t, err)

	err = pool.Start(ctx, []string{"test_queue"})
	require.NoError(t, err)
	defer pool.Stop()

	require.Eventually(t, func() bool {
		got, err := mockQueue.GetJob(ctx, job.ID)
		return err == nil && got.Status == JobStatusCompleted
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, processedJob)
	assert.Equal(t, job.ID, processedJob.ID)

	completed, err := mockQueue.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"result": "success"}, completed.Result)
}

func TestWorkerPool_ProcessJob_FailureIsTerminal(t *testing.T) {
	mockQueue := NewMockQueue()
	cfg := DefaultConfig()
	cfg.WorkerCount = 1
	cfg.PollInterval = 10 * time.Millisecond

	pool := NewWorkerPool(mockQueue, testLogger(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	handler := func(ctx context.Context, job *Job) (map[string]interface{}, error) {
		return nil, errors.New("provider unavailable")
	}

	pool.RegisterHandler("welcome_email", handler)

	// Single-attempt jobs fail permanently on the first error.
	job, err := mockQueue.Enqueue(ctx, "test_queue", "welcome_email",
		map[string]interface{}{"email": "a@x.com"}, &EnqueueOptions{MaxAttempts: 1})
	require.NoError(t, err)

	err = pool.Start(ctx, []string{"test_queue"})
	require.NoError(t, err)
	defer pool.Stop()

	require.Eventually(t, func() bool {
		got, err := mockQueue.GetJob(ctx, job.ID)
		return err == nil && got.Status == JobStatusFailed
	}, time.Second, 10*time.Millisecond)

	failed, err := mockQueue.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "provider unavailable", failed.ErrorMessage)
	assert.Equal(t, 1, failed.AttemptCount)
}

func TestWorkerPool_NoHandlerFailsJob(t *testing.T) {
	mockQueue := NewMockQueue()
	cfg := DefaultConfig()
	cfg.WorkerCount = 1
	cfg.PollInterval = 10 * time.Millisecond

	pool := NewWorkerPool(mockQueue, testLogger(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	job, err := mockQueue.Enqueue(ctx, "test_queue", "unknown_job", nil,
		&EnqueueOptions{MaxAttempts: 1})
	require.NoError(t, err)

	err = pool.Start(ctx, []string{"test_queue"})
	require.NoError(t, err)
	defer pool.Stop()

	require.Eventually(t, func() bool {
		got, err := mockQueue.GetJob(ctx, job.ID)
		return err == nil && got.Status == JobStatusFailed
	}, time.Second, 10*time.Millisecond)
}
