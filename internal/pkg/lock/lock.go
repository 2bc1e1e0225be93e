// Package lock provides short-lived named locks around read-then-write sequences
// such as the booking slot check and the monthly quota count.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v8"
)

var ErrLocked = errors.New("resource is locked")

// Locker acquires a named lock. The returned release func is safe to call once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

func SlotKey(laborID int64, date, clock string) string {
	return fmt.Sprintf("lock:slot:%d:%s:%s", laborID, date, clock)
}

func QuotaKey(customerID int64) string {
	return fmt.Sprintf("lock:quota:%d", customerID)
}

const retryInterval = 25 * time.Millisecond

// RedisLocker holds redsync mutexes so locks hold across API instances.
type RedisLocker struct {
	rs   *redsync.Redsync
	ttl  time.Duration
	wait time.Duration
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		rs:   redsync.New(goredis.NewPool(client)),
		ttl:  ttl,
		wait: wait,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.ttl),
		redsync.WithTries(int(l.wait/retryInterval)+1),
		redsync.WithRetryDelay(retryInterval),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// detached from the request context so a cancelled request still releases
			rctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_, _ = mutex.UnlockContext(rctx)
		})
	}, nil
}

// MemoryLocker serialises within one process. Used when redis is not configured.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{held: make(map[string]chan struct{}), wait: wait}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		ch, busy := l.held[key]
		if !busy {
			done := make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ch:
		case <-timer.C:
			return nil, ErrLocked
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
