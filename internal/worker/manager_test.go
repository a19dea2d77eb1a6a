package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wnt/memeforge/internal/queue"
)

type recordingExecutor struct {
	mu       sync.Mutex
	executed []string
	fail     map[string]bool
}

func (e *recordingExecutor) Execute(_ context.Context, taskID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, taskID)
	if e.fail[taskID] {
		return errors.New("boom")
	}
	return nil
}

func (e *recordingExecutor) Executed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.executed...)
}

func testConfig() Config {
	return Config{
		MinWorkers:      1,
		MaxWorkers:      3,
		TasksPerWorker:  2,
		ScaleInterval:   20 * time.Millisecond,
		MonitorInterval: time.Hour,
		PollInterval:    5 * time.Millisecond,
		ErrorBackoff:    5 * time.Millisecond,
		ShutdownTimeout: time.Second,
	}
}

func TestCalculateDesiredWorkers(t *testing.T) {
	m := NewManager(testConfig(), queue.NewMemoryQueue(), &recordingExecutor{}, zerolog.Nop())

	tests := []struct {
		queueLength int64
		want        int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{100, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.calculateDesiredWorkers(tt.queueLength), "queue length %d", tt.queueLength)
	}
}

func TestNewManagerNormalisesConfig(t *testing.T) {
	m := NewManager(Config{MinWorkers: 0, MaxWorkers: 0, ShutdownTimeout: time.Second}, queue.NewMemoryQueue(), &recordingExecutor{}, zerolog.Nop())
	assert.Equal(t, 1, m.config.MinWorkers)
	assert.Equal(t, 1, m.config.MaxWorkers)
	assert.Equal(t, 1, m.config.TasksPerWorker)
}

func TestManager_DrainsQueue(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()
	exec := &recordingExecutor{fail: map[string]bool{"task-2": true}}

	for _, id := range []string{"task-1", "task-2", "task-3", "task-4", "task-5"} {
		require.NoError(t, q.Push(ctx, id))
	}

	m := NewManager(testConfig(), q, exec, zerolog.Nop())
	require.NoError(t, m.Start(ctx))
	assert.ErrorIs(t, m.Start(ctx), ErrAlreadyStarted)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ActiveWorkers)

	assert.Eventually(t, func() bool {
		return len(exec.Executed()) == 5
	}, 2*time.Second, 10*time.Millisecond)

	assert.ElementsMatch(t, []string{"task-1", "task-2", "task-3", "task-4", "task-5"}, exec.Executed())

	assert.Eventually(t, func() bool {
		stats, err := m.Stats(ctx)
		return err == nil && stats.ActiveWorkers == 1 && stats.InFlightTasks == 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	require.NoError(t, m.Stop())

	stats, err = m.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.ActiveWorkers)
	assert.Zero(t, stats.QueueLength)
}

func TestManager_StopWithoutStart(t *testing.T) {
	m := NewManager(testConfig(), queue.NewMemoryQueue(), &recordingExecutor{}, zerolog.Nop())
	assert.NoError(t, m.Stop())
}

func TestWorker_StopEndsLoop(t *testing.T) {
	w := NewWorker("worker-1", queue.NewMemoryQueue(), &recordingExecutor{}, testConfig(), zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	w.Stop()
	w.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_ContextCancellation(t *testing.T) {
	w := NewWorker("worker-1", queue.NewMemoryQueue(), &recordingExecutor{}, testConfig(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
