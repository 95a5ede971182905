package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/motivationmailer/mailer/internal/database"
	"github.com/motivationmailer/mailer/internal/logger"
)

// Locker guards an operation against overlapping runs in other processes
type Locker interface {
	// Acquire takes the lock for at most ttl. ok is false if another holder has it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// NopLocker always grants the lock
type NopLocker struct{}

// Acquire implements Locker
func (NopLocker) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}

// RedisLocker holds locks as Redis keys owned by a random token
type RedisLocker struct {
	rdb *database.Redis
	log *logger.Logger
}

// NewRedisLocker creates a new RedisLocker
func NewRedisLocker(rdb *database.Redis, log *logger.Logger) *RedisLocker {
	return &RedisLocker{
		rdb: rdb,
		log: log.WithComponent("redis_locker"),
	}
}

// Acquire implements Locker
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.AcquireLock(ctx, key, token, ttl)
	if err != nil || !ok {
		return nil, false, err
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := l.rdb.ReleaseLock(ctx, key, token); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("failed to release lock")
		}
	}
	return release, true, nil
}
