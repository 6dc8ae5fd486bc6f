package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobby/job-board-back/internal/domain"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Logger   *log.Logger
}

// RedisResults shares the provider-response cache across API instances.
// Every Redis failure is treated as a cache miss so a broken cache never
// breaks a search.
type RedisResults struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewRedisResults(ctx context.Context, config RedisConfig) (*RedisResults, error) {
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisResults{
		client: client,
		ttl:    config.TTL,
		logger: config.Logger,
	}, nil
}

func (c *RedisResults) Get(ctx context.Context, key string) ([]domain.Job, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logf("redis get failed key=%s err=%v", key, err)
		}
		return nil, false
	}

	var jobs []domain.Job
	if err := json.Unmarshal(payload, &jobs); err != nil {
		c.logf("redis entry malformed key=%s err=%v", key, err)
		return nil, false
	}
	return jobs, true
}

func (c *RedisResults) Set(ctx context.Context, key string, jobs []domain.Job) {
	payload, err := json.Marshal(jobs)
	if err != nil {
		c.logf("marshal cache entry failed key=%s err=%v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logf("redis set failed key=%s err=%v", key, err)
	}
}

func (c *RedisResults) Close() error {
	return c.client.Close()
}

func (c *RedisResults) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
