package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Pinger is anything the health monitor can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Backend   bool      `json:"backend"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every probed dependency answered.
func (h HealthStatus) Healthy() bool {
	if !h.Backend {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth probes every dependency once and stores the result.
func CheckHealth(ctx context.Context, backend Pinger, redisClients []*redis.Client) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var redisHealth []bool
	for _, client := range redisClients {
		redisHealth = append(redisHealth, client.Ping(ctx).Err() == nil)
	}

	status := HealthStatus{
		Backend:   backend.Ping(ctx) == nil,
		Redis:     redisHealth,
		CheckedAt: time.Now(),
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx ends.
func StartHealthMonitor(ctx context.Context, interval time.Duration, backend Pinger, redisClients []*redis.Client) {
	go func() {
		CheckHealth(ctx, backend, redisClients)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, backend, redisClients)
			}
		}
	}()
}
