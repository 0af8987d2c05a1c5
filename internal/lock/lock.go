// Package lock provides the mutual exclusion used to keep at most one full
// sync run in flight at a time.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker is a best-effort advisory lock.
type Locker interface {
	// TryLock attempts to take the lock without blocking. It returns false
	// when another holder has it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Unlock releases the lock.
	Unlock(ctx context.Context, key string) error
}

// RedisLocker implements Locker with SET NX, so the lock holds across
// processes. The TTL guards against a crashed holder never releasing.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a redis-backed locker.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLocker) Unlock(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

// MemoryLocker implements Locker in process memory, for single-instance
// deployments and tests.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

// NewMemoryLocker creates an in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]time.Time)}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if expiry, ok := l.held[key]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	l.held[key] = time.Now().Add(ttl)
	return true, nil
}

func (l *MemoryLocker) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
