package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Quokkas/config"
	"github.com/redis/go-redis/v9"
)

// AnswerCache is a lookaside store for generated answers, keyed by question id.
// Entries never expire: answers are immutable once written, so staleness is
// impossible and the only cost is growth.
type AnswerCache interface {
	Get(ctx context.Context, questionID uint) (string, bool, error)
	Set(ctx context.Context, questionID uint, text string) error
}

// answerKey is the single canonical keying scheme. Every read and write path
// must agree on it.
func answerKey(questionID uint) string {
	return fmt.Sprintf("answer:%d", questionID)
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
// The same client backs both the answer cache and the task queue.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) AnswerCache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, questionID uint) (string, bool, error) {
	val, err := c.client.Get(ctx, answerKey(questionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, questionID uint, text string) error {
	// No TTL: entries live until the cache itself is cleared externally.
	return c.client.Set(ctx, answerKey(questionID), text, 0).Err()
}
