package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/motivationmailer/mailer/internal/config"
	"github.com/motivationmailer/mailer/internal/database"
	"github.com/motivationmailer/mailer/internal/logger"
	"github.com/motivationmailer/mailer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	rdb, err := database.NewRedis(config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	return NewRedisLocker(rdb, logger.Nop()), mr
}

func TestRedisLocker_Acquire(t *testing.T) {
	ctx := context.Background()
	locker, mr := newTestRedisLocker(t)

	release, ok, err := locker.Acquire(ctx, sendLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists(sendLockKey))
	assert.Equal(t, time.Minute, mr.TTL(sendLockKey))

	_, ok, err = locker.Acquire(ctx, sendLockKey, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists(sendLockKey))

	release, ok, err = locker.Acquire(ctx, sendLockKey, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	release()
}

func TestRedisLocker_ReleaseAfterTakeover(t *testing.T) {
	ctx := context.Background()
	locker, mr := newTestRedisLocker(t)

	release, ok, err := locker.Acquire(ctx, sendLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, mr.Set(sendLockKey, "someone-else"))
	release()

	got, err := mr.Get(sendLockKey)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestMailerService_SkipsWhileRedisLockHeld(t *testing.T) {
	ctx := context.Background()
	uow := newTestUnitOfWork(t)
	seedSubscribers(t, uow, "a@x.com")
	locker, mr := newTestRedisLocker(t)

	require.NoError(t, mr.Set(sendLockKey, "other-run"))

	fetcher := &fakeFetcher{quotes: []model.Quote{{Text: "q", Author: "a"}}}
	sender := &fakeQuoteSender{}
	svc := NewMailerService(uow, fetcher, sender, locker, MailerOptions{}, logger.Nop())

	_, err := svc.Send(ctx)
	assert.ErrorIs(t, err, ErrSendInProgress)
	assert.Empty(t, sender.calls)

	mr.Del(sendLockKey)
	report, err := svc.Send(ctx)
	require.NoError(t, err)
	assert.Equal(t, SendStatusSent, report.Status)
	assert.False(t, mr.Exists(sendLockKey))
}
