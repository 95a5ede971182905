package database

import (
	"context"
	"fmt"
	"time"

	"github.com/motivationmailer/mailer/internal/config"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it is still held by the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis wraps the Redis client
type Redis struct {
	*redis.Client
}

// NewRedis creates a new Redis connection
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &ConnectionError{Backend: "redis", Err: err}
	}

	return &Redis{Client: client}, nil
}

// HealthCheck verifies the Redis connection is healthy
func (r *Redis) HealthCheck(ctx context.Context) error {
	return r.Ping(ctx).Err()
}

// AcquireLock sets key to token if the key is absent. It reports whether the lock was taken.
func (r *Redis) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	ok, err := r.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// ReleaseLock removes key if it still holds token
func (r *Redis) ReleaseLock(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, r.Client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}
