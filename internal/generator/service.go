// Package generator turns coin drafts into generated coins and deploys them.
// Requests become tasks that a worker pool executes asynchronously.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/catalog"
	"github.com/wnt/memeforge/internal/config"
	"github.com/wnt/memeforge/internal/logger"
	"github.com/wnt/memeforge/internal/metrics"
	"github.com/wnt/memeforge/internal/models"
	"github.com/wnt/memeforge/internal/queue"
	"github.com/wnt/memeforge/internal/tokenomics"
	"golang.org/x/time/rate"
)

var (
	// ErrWalletNotConnected is returned when a request needs a connected account
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrInvalidTransition is returned when a coin cannot move to the requested status
	ErrInvalidTransition = errors.New("invalid coin status transition")

	// ErrNotCreator is returned when an account acts on a coin it did not create
	ErrNotCreator = errors.New("coin belongs to another account")

	// ErrTaskNotFound is returned for unknown task IDs
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskFinished is returned when cancelling a task that already completed
	ErrTaskFinished = errors.New("task already finished")

	// ErrThrottled is returned when requests arrive faster than the configured rate
	ErrThrottled = errors.New("too many requests")
)

// DefaultTaskTTL is how long finished tasks stay queryable
const DefaultTaskTTL = time.Hour

// Service accepts generate and deploy requests and executes their tasks
type Service struct {
	source       catalog.Source
	queue        queue.Queue
	chain        Chain
	distribution tokenomics.Distribution
	limits       config.Limits
	limiter      *rate.Limiter
	taskTTL      time.Duration
	logger       zerolog.Logger
	now          func() time.Time

	mu        sync.RWMutex
	tasks     map[string]*Task
	deploying map[string]string // coin ID -> ID of the deploy task holding it
}

// Option configures a Service
type Option func(*Service)

// WithThrottle limits how often new tasks can be requested
func WithThrottle(rps float64, burst int) Option {
	return func(s *Service) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTaskTTL sets how long finished tasks are kept. Zero keeps them forever.
func WithTaskTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.taskTTL = ttl
	}
}

// NewService creates a generator service
func NewService(
	cfg config.Config,
	source catalog.Source,
	q queue.Queue,
	chain Chain,
	baseLogger zerolog.Logger,
	opts ...Option,
) (*Service, error) {
	distribution := tokenomics.FromConfig(cfg.Tokenomics)
	if err := distribution.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		source:       source,
		queue:        q,
		chain:        chain,
		distribution: distribution,
		limits:       cfg.Limits,
		logger:       logger.WithComponent(baseLogger, "generator"),
		taskTTL:      DefaultTaskTTL,
		now:          time.Now,
		tasks:        make(map[string]*Task),
		deploying:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Distribution returns the percentages applied to every generated coin
func (s *Service) Distribution() tokenomics.Distribution {
	return s.distribution
}

// Limits returns the bounds drafts are validated against
func (s *Service) Limits() config.Limits {
	return s.limits
}

// Generate validates draft and enqueues a task that generates the coin for creator
func (s *Service) Generate(ctx context.Context, creator string, draft Draft) (*Task, error) {
	if creator == "" {
		return nil, ErrWalletNotConnected
	}

	draft = draft.Normalize()
	if err := draft.Validate(s.limits); err != nil {
		return nil, err
	}
	if _, err := tokenomics.SplitWith(draft.TotalSupply, s.distribution); err != nil {
		return nil, err
	}

	task := s.newTask(TaskGenerate, creator)
	task.draft = draft
	return s.enqueue(ctx, task)
}

// Deploy enqueues a task that deploys a generated coin owned by creator
func (s *Service) Deploy(ctx context.Context, creator, coinID string) (*Task, error) {
	if creator == "" {
		return nil, ErrWalletNotConnected
	}

	coin, err := s.source.GetCoin(ctx, coinID)
	if err != nil {
		return nil, err
	}
	if coin.Creator != creator {
		return nil, ErrNotCreator
	}
	if coin.Status != models.CoinStatusGenerated {
		return nil, fmt.Errorf("%w: coin %s is %s", ErrInvalidTransition, coinID, coin.Status)
	}

	task := s.newTask(TaskDeploy, creator)
	task.CoinID = coinID

	s.mu.Lock()
	if holder, busy := s.deploying[coinID]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: coin %s is already being deployed by task %s", ErrInvalidTransition, coinID, holder)
	}
	s.deploying[coinID] = task.ID
	s.mu.Unlock()

	snapshot, err := s.enqueue(ctx, task)
	if err != nil {
		s.mu.Lock()
		s.releaseCoin(task)
		s.mu.Unlock()
		return nil, err
	}
	return snapshot, nil
}

// Task returns a snapshot of the task with the given ID
func (s *Service) Task(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	snapshot := *task
	return &snapshot, nil
}

// Cancel stops a pending or running task
func (s *Service) Cancel(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	if task.Status.Final() {
		return nil, fmt.Errorf("%w: %s", ErrTaskFinished, task.Status)
	}
	if task.committing {
		return nil, fmt.Errorf("%w: result is being saved", ErrTaskFinished)
	}

	if task.Status == TaskPending {
		// never reaches finish, Execute skips it
		s.releaseCoin(task)
	}
	if task.cancel != nil {
		task.cancel()
	}
	task.Status = TaskCancelled
	task.UpdatedAt = s.now()

	taskLogger := logger.WithTask(s.logger, task.ID, string(task.Kind))
	taskLogger.Info().Msg("Task cancelled")
	snapshot := *task
	return &snapshot, nil
}

// Execute runs a queued task. Cancelled and unknown tasks are skipped.
// A failed task is marked failed and never retried.
func (s *Service) Execute(ctx context.Context, taskID string) error {
	s.mu.Lock()
	task, ok := s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status != TaskPending {
		s.mu.Unlock()
		return nil
	}
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	task.cancel = cancel
	task.Status = TaskRunning
	task.UpdatedAt = s.now()
	kind := task.Kind
	s.mu.Unlock()

	taskLogger := logger.WithTask(s.logger, taskID, string(kind))
	taskLogger.Info().Msg("Task started")
	start := time.Now()

	var (
		coinID string
		err    error
	)
	switch kind {
	case TaskGenerate:
		coinID, err = s.generate(taskCtx, task)
	case TaskDeploy:
		coinID, err = s.deploy(taskCtx, task)
	default:
		err = fmt.Errorf("unknown task kind %q", kind)
	}

	status := s.finish(task, coinID, err)
	metrics.RecordTask(string(kind), string(status), time.Since(start).Seconds())

	switch status {
	case TaskSucceeded:
		coinLogger := logger.WithCoin(taskLogger, coinID)
		coinLogger.Info().Dur("duration", time.Since(start)).Msg("Task completed")
	case TaskCancelled:
		taskLogger.Info().Msg("Task stopped after cancellation")
	default:
		taskLogger.Error().Err(err).Msg("Task failed")
		return fmt.Errorf("task %s failed: %w", taskID, err)
	}
	return nil
}

func (s *Service) generate(ctx context.Context, task *Task) (string, error) {
	s.mu.RLock()
	draft, creator := task.draft, task.Creator
	s.mu.RUnlock()

	allocation, err := tokenomics.SplitWith(draft.TotalSupply, s.distribution)
	if err != nil {
		return "", err
	}

	mint, err := s.chain.Mint(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("failed to mint coin: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := s.now()
	coin := models.Coin{
		ID:              uuid.NewString(),
		Name:            draft.Name,
		Symbol:          draft.Symbol,
		Description:     draft.Description,
		Creator:         creator,
		ContractAddress: mint,
		TotalSupply:     draft.TotalSupply,
		Decimals:        draft.Decimals,
		Status:          models.CoinStatusGenerated,
		Category:        models.CategoryMeme,
		Tokenomics:      allocation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.commit(ctx, task, coin); err != nil {
		return "", err
	}
	return coin.ID, nil
}

func (s *Service) deploy(ctx context.Context, task *Task) (string, error) {
	coinID := task.CoinID

	coin, err := s.source.GetCoin(ctx, coinID)
	if err != nil {
		return coinID, err
	}
	if coin.Status != models.CoinStatusGenerated {
		return coinID, fmt.Errorf("%w: coin %s is %s", ErrInvalidTransition, coinID, coin.Status)
	}

	if err := s.chain.Deploy(ctx, coin); err != nil {
		return coinID, fmt.Errorf("failed to deploy coin: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return coinID, err
	}

	now := s.now()
	coin.Status = models.CoinStatusDeployed
	coin.DeployedAt = &now
	coin.UpdatedAt = now
	if err := s.commit(ctx, task, coin); err != nil {
		return coinID, err
	}
	return coinID, nil
}

// commit saves the result of a task unless it was cancelled first. Once
// committing, the task can no longer be cancelled.
func (s *Service) commit(ctx context.Context, task *Task, coin models.Coin) error {
	s.mu.Lock()
	if task.Status == TaskCancelled {
		s.mu.Unlock()
		return context.Canceled
	}
	task.committing = true
	task.cancel = nil
	s.mu.Unlock()

	if err := s.source.SaveCoin(context.WithoutCancel(ctx), coin); err != nil {
		return fmt.Errorf("failed to save coin: %w", err)
	}
	return nil
}

// finish records the outcome of a run. A task cancelled while running stays cancelled.
func (s *Service) finish(task *Task, coinID string, err error) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.cancel = nil
	task.committing = false
	task.UpdatedAt = s.now()
	s.releaseCoin(task)
	if task.Status == TaskCancelled {
		return TaskCancelled
	}

	switch {
	case err == nil:
		task.Status = TaskSucceeded
		task.CoinID = coinID
	case errors.Is(err, context.Canceled):
		task.Status = TaskCancelled
	default:
		task.Status = TaskFailed
		task.Error = err.Error()
	}
	return task.Status
}

// releaseCoin frees the coin claimed by a deploy task. Callers hold s.mu.
func (s *Service) releaseCoin(task *Task) {
	if task.Kind == TaskDeploy && s.deploying[task.CoinID] == task.ID {
		delete(s.deploying, task.CoinID)
	}
}

// pruneTasks drops finished tasks older than the TTL. Callers hold s.mu.
func (s *Service) pruneTasks() {
	if s.taskTTL <= 0 {
		return
	}
	cutoff := s.now().Add(-s.taskTTL)
	for id, task := range s.tasks {
		if task.Status.Final() && task.UpdatedAt.Before(cutoff) {
			delete(s.tasks, id)
		}
	}
}

func (s *Service) newTask(kind TaskKind, creator string) *Task {
	now := s.now()
	return &Task{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    TaskPending,
		Creator:   creator,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) enqueue(ctx context.Context, task *Task) (*Task, error) {
	if s.limiter != nil && !s.limiter.Allow() {
		return nil, ErrThrottled
	}

	s.mu.Lock()
	s.pruneTasks()
	s.tasks[task.ID] = task
	s.mu.Unlock()

	if err := s.queue.Push(ctx, task.ID); err != nil {
		s.mu.Lock()
		delete(s.tasks, task.ID)
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	taskLogger := logger.WithTask(s.logger, task.ID, string(task.Kind))
	taskLogger.Info().
		Str("creator", task.Creator).
		Str("coin_id", task.CoinID).
		Msg("Task queued")

	s.mu.RLock()
	snapshot := *task
	s.mu.RUnlock()
	return &snapshot, nil
}
