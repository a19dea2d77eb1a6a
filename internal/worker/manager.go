// Package worker runs a dynamically sized pool of goroutines draining the task queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/config"
	"github.com/wnt/memeforge/internal/metrics"
	"github.com/wnt/memeforge/internal/queue"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyStarted is returned when Start is called twice
var ErrAlreadyStarted = errors.New("worker manager already started")

// Config controls pool sizing and polling
type Config struct {
	MinWorkers      int
	MaxWorkers      int
	TasksPerWorker  int
	ScaleInterval   time.Duration
	MonitorInterval time.Duration
	PollInterval    time.Duration
	ErrorBackoff    time.Duration
	ShutdownTimeout time.Duration
}

// NewConfig derives pool settings from the application config
func NewConfig(cfg config.Config) Config {
	return Config{
		MinWorkers:      cfg.MinWorkers,
		MaxWorkers:      cfg.MaxWorkers,
		TasksPerWorker:  5,
		ScaleInterval:   10 * time.Second,
		MonitorInterval: time.Minute,
		PollInterval:    250 * time.Millisecond,
		ErrorBackoff:    time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Stats is a point-in-time view of the pool
type Stats struct {
	ActiveWorkers int   `json:"activeWorkers"`
	QueueLength   int64 `json:"queueLength"`
	InFlightTasks int   `json:"inFlightTasks"`
	MinWorkers    int   `json:"minWorkers"`
	MaxWorkers    int   `json:"maxWorkers"`
}

// Manager manages a dynamic pool of workers
type Manager struct {
	config   Config
	queue    queue.Queue
	executor Executor
	workers  []*Worker
	nextID   int
	logger   zerolog.Logger
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
	eg       *errgroup.Group
	started  bool
	stopped  bool
}

// NewManager creates a new worker manager
func NewManager(cfg Config, q queue.Queue, executor Executor, logger zerolog.Logger) *Manager {
	if cfg.MinWorkers < 1 {
		cfg.MinWorkers = 1
	}
	if cfg.MaxWorkers < cfg.MinWorkers {
		cfg.MaxWorkers = cfg.MinWorkers
	}
	if cfg.TasksPerWorker < 1 {
		cfg.TasksPerWorker = 1
	}

	return &Manager{
		config:   cfg,
		queue:    q,
		executor: executor,
		logger:   logger.With().Str("component", "worker_manager").Logger(),
	}
}

// Start launches the initial workers and the scaling and monitoring loops
func (m *Manager) Start(ctx context.Context) error {
	m.mutex.Lock()
	if m.started {
		m.mutex.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	runCtx, cancel := context.WithCancel(ctx)
	m.eg, m.ctx = errgroup.WithContext(runCtx)
	m.cancel = cancel
	m.mutex.Unlock()

	m.logger.Info().
		Int("min_workers", m.config.MinWorkers).
		Int("max_workers", m.config.MaxWorkers).
		Msg("Starting worker manager")

	if err := m.adjustWorkerCount(); err != nil {
		return fmt.Errorf("failed to start initial workers: %w", err)
	}

	m.eg.Go(m.runScalingLoop)
	m.eg.Go(m.runQueueMonitoring)

	m.logger.Info().Msg("Worker manager started successfully")
	return nil
}

// Stop gracefully shuts down the worker manager
func (m *Manager) Stop() error {
	m.mutex.Lock()
	if m.stopped || !m.started {
		m.mutex.Unlock()
		return nil
	}
	m.stopped = true
	m.mutex.Unlock()

	m.logger.Info().Msg("Stopping worker manager...")

	m.cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.eg.Wait()
	}()

	var err error
	select {
	case err = <-done:
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			m.logger.Error().Err(err).Msg("Error during worker shutdown")
		}
	case <-time.After(m.config.ShutdownTimeout):
		m.logger.Warn().Msg("Worker shutdown timed out")
	}

	m.mutex.Lock()
	m.workers = nil
	m.mutex.Unlock()

	metrics.WorkersActive.Set(0)
	m.logger.Info().Msg("Worker manager stopped")
	return err
}

// runScalingLoop re-evaluates the worker count every ScaleInterval
func (m *Manager) runScalingLoop() error {
	ticker := time.NewTicker(m.config.ScaleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return m.ctx.Err()
		case <-ticker.C:
			if err := m.adjustWorkerCount(); err != nil {
				m.logger.Error().Err(err).Msg("Failed to adjust worker count")
			}
		}
	}
}

// adjustWorkerCount scales workers based on queue length
func (m *Manager) adjustWorkerCount() error {
	queueLength, err := m.queue.Len(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to get queue length: %w", err)
	}

	metrics.TaskQueueLength.Set(float64(queueLength))

	desiredWorkers := m.calculateDesiredWorkers(queueLength)

	m.mutex.RLock()
	currentWorkers := len(m.workers)
	m.mutex.RUnlock()

	if desiredWorkers == currentWorkers {
		return nil
	}

	m.logger.Info().
		Int("current_workers", currentWorkers).
		Int("desired_workers", desiredWorkers).
		Int64("queue_length", queueLength).
		Msg("Adjusting worker count")

	if desiredWorkers > currentWorkers {
		m.addWorkers(desiredWorkers - currentWorkers)
	} else {
		m.removeWorkers(currentWorkers - desiredWorkers)
	}
	return nil
}

// calculateDesiredWorkers allots one worker per TasksPerWorker queued tasks
func (m *Manager) calculateDesiredWorkers(queueLength int64) int {
	perWorker := int64(m.config.TasksPerWorker)
	desired := int((queueLength + perWorker - 1) / perWorker)
	if desired < m.config.MinWorkers {
		desired = m.config.MinWorkers
	}
	if desired > m.config.MaxWorkers {
		desired = m.config.MaxWorkers
	}
	return desired
}

// addWorkers creates and starts new workers
func (m *Manager) addWorkers(count int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i := 0; i < count; i++ {
		m.nextID++
		w := NewWorker(fmt.Sprintf("worker-%d", m.nextID), m.queue, m.executor, m.config, m.logger)

		m.eg.Go(func() error {
			return w.Start(m.ctx)
		})

		m.workers = append(m.workers, w)

		m.logger.Debug().
			Str("worker_id", w.ID()).
			Int("total_workers", len(m.workers)).
			Msg("Added worker")
	}

	metrics.WorkersActive.Set(float64(len(m.workers)))
}

// removeWorkers signals the newest workers to stop after their current task
func (m *Manager) removeWorkers(count int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if count > len(m.workers) {
		count = len(m.workers)
	}

	for _, w := range m.workers[len(m.workers)-count:] {
		w.Stop()
	}
	m.workers = m.workers[:len(m.workers)-count]

	metrics.WorkersActive.Set(float64(len(m.workers)))

	m.logger.Info().
		Int("removed", count).
		Int("remaining_workers", len(m.workers)).
		Msg("Workers removed")
}

// runQueueMonitoring periodically logs queue statistics
func (m *Manager) runQueueMonitoring() error {
	ticker := time.NewTicker(m.config.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return m.ctx.Err()
		case <-ticker.C:
			stats, err := m.Stats(m.ctx)
			if err != nil {
				m.logger.Error().Err(err).Msg("Failed to collect queue stats")
				continue
			}

			m.logger.Info().
				Int64("queue_length", stats.QueueLength).
				Int("in_flight_tasks", stats.InFlightTasks).
				Int("active_workers", stats.ActiveWorkers).
				Msg("Queue monitoring stats")
		}
	}
}

// Stats returns current manager statistics
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	queueLength, err := m.queue.Len(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get queue length: %w", err)
	}
	inFlight, err := m.queue.InFlight(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get in-flight tasks: %w", err)
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return Stats{
		ActiveWorkers: len(m.workers),
		QueueLength:   queueLength,
		InFlightTasks: len(inFlight),
		MinWorkers:    m.config.MinWorkers,
		MaxWorkers:    m.config.MaxWorkers,
	}, nil
}
