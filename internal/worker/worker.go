package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/logger"
	"github.com/wnt/memeforge/internal/queue"
)

// Executor runs a single queued task
type Executor interface {
	Execute(ctx context.Context, taskID string) error
}

// Worker pops task IDs off the queue and hands them to an Executor
type Worker struct {
	id       string
	queue    queue.Queue
	executor Executor
	poll     time.Duration
	backoff  time.Duration
	logger   zerolog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a new worker instance
func NewWorker(id string, q queue.Queue, executor Executor, cfg Config, baseLogger zerolog.Logger) *Worker {
	return &Worker{
		id:       id,
		queue:    q,
		executor: executor,
		poll:     cfg.PollInterval,
		backoff:  cfg.ErrorBackoff,
		logger:   logger.WithWorker(baseLogger, id),
		stop:     make(chan struct{}),
	}
}

// ID returns the worker's identifier
func (w *Worker) ID() string {
	return w.id
}

// Start runs the processing loop until ctx is done or Stop is called
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().Msg("Starting worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Worker received shutdown signal")
			return ctx.Err()
		case <-w.stop:
			w.logger.Info().Msg("Worker stopped")
			return nil
		default:
		}

		if err := w.processTask(ctx); err != nil {
			w.logger.Error().Err(err).Msg("Failed to process task")

			// Brief pause to avoid tight error loops
			if !w.pause(ctx, w.backoff) {
				return ctx.Err()
			}
		}
	}
}

// Stop signals the worker to exit after its current task
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.logger.Info().Msg("Worker stop signal received")
	})
}

// processTask handles the lifecycle of a single queued task
func (w *Worker) processTask(ctx context.Context) error {
	taskID, err := w.queue.Pop(ctx)
	if err != nil {
		return fmt.Errorf("failed to pop task from queue: %w", err)
	}

	if taskID == "" {
		w.pause(ctx, w.poll)
		return nil
	}

	if err := w.queue.SetInFlight(ctx, taskID, w.id); err != nil {
		// Re-queue the task since we couldn't track it
		if requeueErr := w.queue.Push(ctx, taskID); requeueErr != nil {
			w.logger.Error().Err(requeueErr).Str("task_id", taskID).Msg("Failed to requeue task after in-flight error")
		}
		return fmt.Errorf("failed to mark task %s as in-flight: %w", taskID, err)
	}

	taskLogger := w.logger.With().Str("task_id", taskID).Logger()
	start := time.Now()
	taskLogger.Debug().Msg("Executing task")

	err = w.executor.Execute(ctx, taskID)

	// The in-flight record must be cleared even when ctx is already cancelled
	if removeErr := w.queue.RemoveInFlight(context.WithoutCancel(ctx), taskID); removeErr != nil {
		taskLogger.Error().Err(removeErr).Msg("Failed to remove task from in-flight tracking")
	}

	if err != nil {
		return fmt.Errorf("task %s: %w", taskID, err)
	}

	taskLogger.Debug().Dur("duration", time.Since(start)).Msg("Task executed")
	return nil
}

// pause waits d, returning false if ctx ended first
func (w *Worker) pause(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-w.stop:
		return true
	case <-ctx.Done():
		return false
	}
}
