// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"hotelbooking/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient holds availability request tokens.
	CacheClient *redis.Client
	// LockClient holds submission locks.
	LockClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis db %d: %w", db, err)
	}
	return client, nil
}

// InitRedis connects the cache and lock clients.
func InitRedis() error {
	var err error
	if CacheClient, err = newRedisClient(config.AppConfig.RedisCacheDB); err != nil {
		return err
	}
	if LockClient, err = newRedisClient(config.AppConfig.RedisLockDB); err != nil {
		CacheClient.Close()
		CacheClient = nil
		return err
	}
	return nil
}

// CloseRedis closes whichever clients are open.
func CloseRedis() {
	for _, c := range []*redis.Client{CacheClient, LockClient} {
		if c != nil {
			c.Close()
		}
	}
}

// RedisClients lists the connected clients, for health checks.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{CacheClient, LockClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
