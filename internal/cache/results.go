package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jobby/job-board-back/internal/domain"
)

type Config struct {
	TTL        time.Duration
	MaxEntries int
}

type memoryEntry struct {
	jobs      []domain.Job
	expiresAt time.Time
}

// MemoryResults caches normalized provider responses in process memory.
// It backs the aggregator when no Redis address is configured.
type MemoryResults struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
}

func NewMemoryResults(config Config) *MemoryResults {
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = 2000
	}
	return &MemoryResults{
		entries:    make(map[string]memoryEntry),
		ttl:        config.TTL,
		maxEntries: config.MaxEntries,
	}
}

func (c *MemoryResults) Get(_ context.Context, key string) ([]domain.Job, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneJobs(entry.jobs), true
}

func (c *MemoryResults) Set(_ context.Context, key string, jobs []domain.Job) {
	now := time.Now()
	entry := memoryEntry{
		jobs:      cloneJobs(jobs),
		expiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		for existingKey, existing := range c.entries {
			if now.After(existing.expiresAt) {
				delete(c.entries, existingKey)
			}
		}
	}
	if len(c.entries) >= c.maxEntries {
		var (
			oldestKey string
			oldestTS  time.Time
			first     = true
		)
		for existingKey, existing := range c.entries {
			if first || existing.expiresAt.Before(oldestTS) {
				first = false
				oldestKey = existingKey
				oldestTS = existing.expiresAt
			}
		}
		if !first {
			delete(c.entries, oldestKey)
		}
	}
	c.entries[key] = entry
}

func cloneJobs(jobs []domain.Job) []domain.Job {
	return append([]domain.Job(nil), jobs...)
}
