package queue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisQueue(t *testing.T) *RedisQueue {
	t.Helper()
	mr := miniredis.RunT(t)
	q, err := NewRedisQueue("redis://"+mr.Addr(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func TestQueueImplementations(t *testing.T) {
	impls := map[string]func(t *testing.T) Queue{
		"memory": func(t *testing.T) Queue { return NewMemoryQueue() },
		"redis":  func(t *testing.T) Queue { return newTestRedisQueue(t) },
	}

	for name, newQueue := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			q := newQueue(t)

			id, err := q.Pop(ctx)
			require.NoError(t, err)
			assert.Empty(t, id, "empty queue pops nothing")

			for _, taskID := range []string{"t1", "t2", "t3"} {
				require.NoError(t, q.Push(ctx, taskID))
			}

			length, err := q.Len(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), length)

			for _, want := range []string{"t1", "t2", "t3"} {
				got, err := q.Pop(ctx)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			require.NoError(t, q.SetInFlight(ctx, "t1", "worker-1"))
			inFlight, err := q.InFlight(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"t1": "worker-1"}, inFlight)

			require.NoError(t, q.RemoveInFlight(ctx, "t1"))
			inFlight, err = q.InFlight(ctx)
			require.NoError(t, err)
			assert.Empty(t, inFlight)
		})
	}
}

func TestNewRedisQueueBadURL(t *testing.T) {
	_, err := NewRedisQueue("://nope", zerolog.Nop())
	assert.Error(t, err)
}

func TestNewRedisQueueUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisQueue("redis://"+addr, zerolog.Nop())
	assert.Error(t, err)
}

func TestRedisQueueFromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	q := NewRedisQueueFromClient(client, zerolog.Nop())
	defer q.Close()

	require.NoError(t, q.Push(context.Background(), "only"))
	assert.True(t, mr.Exists(queueKey))
}
