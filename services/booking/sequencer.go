package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenSequencer hands out monotonically increasing request tokens per key.
type TokenSequencer interface {
	Next(ctx context.Context, key string) (int64, error)
	Current(ctx context.Context, key string) (int64, error)
}

// MemorySequencer keeps tokens in process memory.
type MemorySequencer struct {
	mu     sync.Mutex
	tokens map[string]int64
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{tokens: make(map[string]int64)}
}

func (s *MemorySequencer) Next(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key]++
	return s.tokens[key], nil
}

func (s *MemorySequencer) Current(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[key], nil
}

// RedisSequencer shares tokens between gateway replicas.
type RedisSequencer struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration // Idle forms are forgotten after TTL
}

func NewRedisSequencer(client *redis.Client) *RedisSequencer {
	return &RedisSequencer{
		Client: client,
		Prefix: "availability:token:",
		TTL:    time.Hour,
	}
}

func (s *RedisSequencer) Next(ctx context.Context, key string) (int64, error) {
	k := s.Prefix + key
	pipe := s.Client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("next availability token: %w", err)
	}
	return incr.Val(), nil
}

func (s *RedisSequencer) Current(ctx context.Context, key string) (int64, error) {
	v, err := s.Client.Get(ctx, s.Prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("current availability token: %w", err)
	}
	return v, nil
}
