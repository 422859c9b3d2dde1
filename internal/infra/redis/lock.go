package redis

import (
	"context"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
)

// Locker serializes settlement per correlation token: duplicate return
// callbacks for the same token contend on one key and only one proceeds.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

var _ Locker = (*RedisLocker)(nil)

type RedisLocker struct {
	client *Client
}

func NewLocker(c *Client) *RedisLocker {
	return &RedisLocker{client: c}
}

// TryLock acquires key once, without waiting. Settlement must not queue
// behind itself: a second holder means a duplicate callback, and the right
// answer is to reject it.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrSettlementInFlight
	}
	return token, nil
}

var luaUnlock = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	_, err := l.client.Eval(ctx, luaUnlock, []string{key}, token)
	return err
}
