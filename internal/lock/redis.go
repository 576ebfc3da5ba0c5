package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
	"github.com/brightcredit/credit-engine/pkg/logger"
)

const (
	lockKeyPrefix = "loan-lock:"
	pollInterval  = 50 * time.Millisecond
)

// releaseScript deletes the lease only if we still own it, so an expired
// lease taken over by another worker is never released from here.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisLock is a Manager backed by a Redis SET NX PX lease, for deployments
// where accrual and billing workers run on more than one instance.
type RedisLock struct {
	client      *redis.Client
	waitTimeout time.Duration
	leaseTTL    time.Duration
}

func NewRedisLock(client *redis.Client, waitTimeout, leaseTTL time.Duration) *RedisLock {
	return &RedisLock{
		client:      client,
		waitTimeout: waitTimeout,
		leaseTTL:    leaseTTL,
	}
}

func (l *RedisLock) WithLoanLock(ctx context.Context, loanID uuid.UUID, fn func(ctx context.Context) error) error {
	key := lockKeyPrefix + loanID.String()
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			logger.Log.Warn("releasing loan lock", logger.String("key", key), logger.Error(err))
		}
	}()

	return fn(ctx)
}

func (l *RedisLock) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.waitTimeout)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.leaseTTL).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if time.Now().After(deadline) {
			return apperrors.ErrLockTimeout
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
