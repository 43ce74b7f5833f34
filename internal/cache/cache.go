// Package cache хранит ключи идемпотентности переключений (голос, save/hide, опрос).
// Основная реализация — Redis (SET NX EX), запасная — LRU в памяти процесса.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotency — ключи идемпотентности в Redis.
type RedisIdempotency struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisIdempotency создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "social:idem:".
func NewRedisIdempotency(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*RedisIdempotency, error) {
	const op = "cache/NewRedisIdempotency"

	if prefix == "" {
		prefix = "social:idem:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisIdempotency{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

// Claim занимает ключ на ttl. true — ключ занят этим вызовом впервые.
func (c *RedisIdempotency) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, c.prefix+key, 1, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache/Claim: %w", err)
	}

	return ok, nil
}

// Release освобождает ключ, если переключение не состоялось.
func (c *RedisIdempotency) Release(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache/Release: %w", err)
	}

	return nil
}

// Ping проверяет доступность Redis.
func (c *RedisIdempotency) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *RedisIdempotency) Close() error { return c.rdb.Close() }

// LocalIdempotency — ключи в LRU процесса. Подходит для одного инстанса.
type LocalIdempotency struct {
	mu  sync.Mutex
	lru *lru.Cache[string, time.Time]
	ttl time.Duration
	now func() time.Time
}

// NewLocalIdempotency создаёт LRU на size ключей.
func NewLocalIdempotency(size int, ttl time.Duration) (*LocalIdempotency, error) {
	l, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("cache/NewLocalIdempotency: %w", err)
	}

	return &LocalIdempotency{lru: l, ttl: ttl, now: time.Now}, nil
}

// Claim занимает ключ, если его нет или его срок истёк.
func (c *LocalIdempotency) Claim(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if exp, ok := c.lru.Get(key); ok && now.Before(exp) {
		return false, nil
	}

	c.lru.Add(key, now.Add(c.ttl))
	return true, nil
}

// Release освобождает ключ.
func (c *LocalIdempotency) Release(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *LocalIdempotency) Ping(context.Context) error { return nil }

func (c *LocalIdempotency) Close() error {
	c.lru.Purge()
	return nil
}
