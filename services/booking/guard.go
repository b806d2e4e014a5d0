package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SubmissionGuard admits one in-flight submission per reservation key.
// Acquire returns ErrSubmissionInFlight while another holder has the key.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (token string, err error)
	Release(ctx context.Context, key, token string) error
}

type guardEntry struct {
	token   string
	expires time.Time
}

// MemoryGuard is a process-local SubmissionGuard.
type MemoryGuard struct {
	TTL time.Duration
	now func() time.Time

	mu      sync.Mutex
	holders map[string]guardEntry
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		TTL:     ttl,
		now:     time.Now,
		holders: make(map[string]guardEntry),
	}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if e, ok := g.holders[key]; ok && now.Before(e.expires) {
		return "", ErrSubmissionInFlight
	}
	token := uuid.New().String()
	g.holders[key] = guardEntry{token: token, expires: now.Add(g.TTL)}
	return token, nil
}

func (g *MemoryGuard) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.holders[key]; ok && e.token == token {
		delete(g.holders, key)
	}
	return nil
}

// releaseScript deletes the lock only when it still belongs to the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard is a SubmissionGuard shared between gateway replicas.
type RedisGuard struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{
		Client: client,
		Prefix: "booking:submit:",
		TTL:    ttl,
	}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (string, error) {
	token := uuid.New().String()
	ok, err := g.Client.SetNX(ctx, g.Prefix+key, token, g.TTL).Result()
	if err != nil {
		return "", fmt.Errorf("acquire submission lock: %w", err)
	}
	if !ok {
		return "", ErrSubmissionInFlight
	}
	return token, nil
}

func (g *RedisGuard) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, g.Client, []string{g.Prefix + key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release submission lock: %w", err)
	}
	return nil
}
