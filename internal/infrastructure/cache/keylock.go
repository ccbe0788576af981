package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

// KeyLocker serializes work per key. The returned unlock func is safe to
// call more than once.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

// LocalKeyLocker serializes callers inside one process. Entries are dropped
// once no caller holds or waits for the key.
type LocalKeyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func NewLocalKeyLocker() *LocalKeyLocker {
	return &LocalKeyLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalKeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			l.release(key, kl)
		})
	}, nil
}

func (l *LocalKeyLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// releaseScript deletes the lock only when it still carries our token, so an
// expired lock re-acquired by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const lockRetryInterval = 50 * time.Millisecond

// RedisKeyLocker extends LocalKeyLocker across processes with a
// SET NX PX lock. The TTL bounds how long a crashed holder blocks others.
type RedisKeyLocker struct {
	local  *LocalKeyLocker
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisKeyLocker(client *redis.Client, prefix string, ttl time.Duration, log logger.Interface) *RedisKeyLocker {
	return &RedisKeyLocker{
		local:  NewLocalKeyLocker(),
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log,
	}
}

func (l *RedisKeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlockLocal, err := l.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	redisKey := l.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			unlockLocal()
			return nil, fmt.Errorf("failed to acquire lock in redis: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be cancelled.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
				l.logger.Warnw("failed to release record lock", "key", redisKey, "error", err)
			}
			unlockLocal()
		})
	}, nil
}
