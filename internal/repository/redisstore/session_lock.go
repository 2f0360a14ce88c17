package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockPrefix = "solemate:lock:"

// DefaultLockTTL bounds how long a crashed instance can hold a session
const DefaultLockTTL = 5 * time.Minute

// releaseScript deletes the lock only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionLock serializes turns of one session across API instances sharing
// the Redis history backend.
type SessionLock struct {
	rdb   *redis.Client
	ttl   time.Duration
	retry time.Duration
}

func NewSessionLock(rdb *redis.Client, ttl time.Duration) *SessionLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &SessionLock{rdb: rdb, ttl: ttl, retry: 50 * time.Millisecond}
}

func lockKey(sessionID string) string {
	return lockPrefix + sessionID
}

// Acquire blocks until the session lock is held or ctx ends
func (l *SessionLock) Acquire(ctx context.Context, sessionID string) (func(), error) {
	token := uuid.NewString()
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, lockKey(sessionID), token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			return func() { l.release(sessionID, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire session lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// release runs on a fresh context since the turn's may already be done. A failed
// release leaves the key to expire after ttl.
func (l *SessionLock) release(sessionID, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = releaseScript.Run(ctx, l.rdb, []string{lockKey(sessionID)}, token).Err()
}
