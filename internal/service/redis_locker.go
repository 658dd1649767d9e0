package service

import (
	"context"
	"sync"
	"time"

	"doctor-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseLockScript deletes the lock key only if it still carries our token,
// so an expired lock taken over by another process is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// Redis key prefix for booking locks
	RedisLockKeyPrefix = "booking:lock:"

	lockRetryInterval = 25 * time.Millisecond

	// Timeout for the release call, independent of the caller's context
	lockReleaseTimeout = 2 * time.Second
)

// RedisLocker is a KeyedLocker shared by every process using the same Redis.
// Keys are first serialized in-process so that only one local caller polls Redis.
type RedisLocker struct {
	client *redis.Client
	local  *LocalLocker
	log    *logrus.Logger
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisLocker(client *redis.Client, local *LocalLocker, log *logrus.Logger, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		local:  local,
		log:    log,
		ttl:    ttl,
		wait:   wait,
	}
}

// Lock waits at most the configured wait in total, local queueing included.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	deadline := time.Now().Add(l.wait)
	localCtx, cancel := context.WithDeadline(ctx, deadline)
	unlockLocal, err := l.local.Lock(localCtx, key)
	cancel()
	if err != nil {
		return nil, err
	}

	redisKey := RedisLockKeyPrefix + key
	token := uuid.NewString()

	for {
		acquired, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			unlockLocal()
			l.log.Warnf("Failed to acquire redis lock %s: %+v", redisKey, err)
			return nil, apperror.Transient("failed to acquire lock", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			unlockLocal()
			return nil, ErrLockTimeout
		}

		select {
		case <-time.After(lockRetryInterval):
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
			defer cancel()

			if err := releaseLockScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
				l.log.Warnf("Failed to release redis lock %s: %+v", redisKey, err)
			}
			unlockLocal()
		})
	}, nil
}
