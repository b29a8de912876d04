package queue

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lshigami/Quokkas/config"
	"github.com/redis/go-redis/v9"
)

// TaskQueue hands question ids from the API process to the worker pool.
// Delivery is at-least-once; the worker deduplicates by checking for an
// existing answer before generating.
type TaskQueue interface {
	Enqueue(ctx context.Context, questionID uint) error
	Dequeue(ctx context.Context) (uint, error)
}

type redisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, cfg *config.Config) TaskQueue {
	return &redisQueue{client: client, key: cfg.Redis.QueueKey}
}

func (q *redisQueue) Enqueue(ctx context.Context, questionID uint) error {
	if err := q.client.LPush(ctx, q.key, strconv.FormatUint(uint64(questionID), 10)).Err(); err != nil {
		return fmt.Errorf("failed to enqueue question %d: %w", questionID, err)
	}
	return nil
}

// Dequeue blocks until a task is available or ctx is cancelled.
func (q *redisQueue) Dequeue(ctx context.Context) (uint, error) {
	res, err := q.client.BRPop(ctx, 0, q.key).Result()
	if err != nil {
		return 0, err
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return 0, fmt.Errorf("unexpected BRPOP reply of length %d", len(res))
	}
	id, err := strconv.ParseUint(res[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed task payload %q: %w", res[1], err)
	}
	return uint(id), nil
}
