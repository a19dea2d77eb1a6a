package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/logger"
)

const (
	queueKey    = "memeforge:task_queue"
	inFlightKey = "memeforge:task_inflight"
	sequenceKey = "memeforge:task_seq"
)

// RedisQueue keeps task IDs in a Redis sorted set scored by an enqueue sequence
type RedisQueue struct {
	client *redis.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewRedisQueue connects to redisURL and verifies the connection
func NewRedisQueue(redisURL string, baseLogger zerolog.Logger) (*RedisQueue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	baseLogger.Info().Str("redis_addr", opt.Addr).Msg("Connected to Redis successfully")

	return NewRedisQueueFromClient(client, baseLogger), nil
}

// NewRedisQueueFromClient wraps an existing client
func NewRedisQueueFromClient(client *redis.Client, baseLogger zerolog.Logger) *RedisQueue {
	return &RedisQueue{
		client: client,
		logger: logger.WithComponent(baseLogger, "queue"),
		now:    time.Now,
	}
}

// Push adds a task scored by a monotonic sequence so Pop returns the oldest first
func (q *RedisQueue) Push(ctx context.Context, taskID string) error {
	seq, err := q.client.Incr(ctx, sequenceKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate queue sequence: %w", err)
	}

	err = q.client.ZAdd(ctx, queueKey, redis.Z{
		Score:  float64(seq),
		Member: taskID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to push task to queue: %w", err)
	}

	q.logger.Debug().Str("task_id", taskID).Msg("Pushed task to queue")
	return nil
}

// Pop removes and returns the task with the lowest score
func (q *RedisQueue) Pop(ctx context.Context) (string, error) {
	result, err := q.client.ZPopMin(ctx, queueKey, 1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to pop task from queue: %w", err)
	}

	if len(result) == 0 {
		return "", nil
	}

	taskID, ok := result[0].Member.(string)
	if !ok {
		return "", fmt.Errorf("unexpected queue member type %T", result[0].Member)
	}
	q.logger.Debug().Str("task_id", taskID).Msg("Popped task from queue")
	return taskID, nil
}

// Len returns the number of queued tasks
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	length, err := q.client.ZCard(ctx, queueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// SetInFlight marks a task as being processed by a worker
func (q *RedisQueue) SetInFlight(ctx context.Context, taskID, worker string) error {
	value := fmt.Sprintf("%s,%d", worker, q.now().Unix())
	if err := q.client.HSet(ctx, inFlightKey, taskID, value).Err(); err != nil {
		return fmt.Errorf("failed to set task in-flight: %w", err)
	}
	return nil
}

// RemoveInFlight removes a task from the in-flight tracking
func (q *RedisQueue) RemoveInFlight(ctx context.Context, taskID string) error {
	if err := q.client.HDel(ctx, inFlightKey, taskID).Err(); err != nil {
		return fmt.Errorf("failed to remove task from in-flight: %w", err)
	}
	return nil
}

// InFlight returns in-flight task IDs keyed to their worker
func (q *RedisQueue) InFlight(ctx context.Context) (map[string]string, error) {
	result, err := q.client.HGetAll(ctx, inFlightKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get in-flight tasks: %w", err)
	}

	out := make(map[string]string, len(result))
	for taskID, value := range result {
		worker, _, _ := strings.Cut(value, ",")
		out[taskID] = worker
	}
	return out, nil
}

// Close closes the Redis connection
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
