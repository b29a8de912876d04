package cache

import (
	"context"
	"sync"
)

// MemoryCache is an in-process AnswerCache. It exists for tests and for
// running the API without a Redis instance.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[uint]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[uint]string)}
}

func (c *MemoryCache) Get(_ context.Context, questionID uint) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[questionID]
	return text, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, questionID uint, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[questionID] = text
	return nil
}

// Len reports the number of cached answers.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
