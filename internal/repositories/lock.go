package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another process holds the lock.
var ErrLockHeld = errors.New("lock already held")

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockRepository provides short-lived distributed locks on Redis.
type LockRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLockRepository creates a new LockRepository with the given lock TTL.
func NewLockRepository(client *redis.Client, ttl time.Duration) *LockRepository {
	return &LockRepository{client: client, ttl: ttl}
}

// Acquire takes the lock named key. The returned release func is safe to call
// after the TTL elapsed and another owner took the lock.
func (r *LockRepository) Acquire(ctx context.Context, key string) (release func(), err error) {
	redisKey := fmt.Sprintf("lock:%s", key)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
	logQuery("SETNX "+redisKey, []any{token, r.ttl}, ok, err)
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return func() {
		// ctx may already be cancelled by the time the lock is released.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err()
		logQuery("RELEASE "+redisKey, []any{token}, nil, err)
	}, nil
}
