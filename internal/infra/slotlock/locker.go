package slotlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL    = 5 * time.Second
	DefaultPrefix = "slotlock"
)

// Удаляем ключ, только если он всё ещё принадлежит нам
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker короткая блокировка слота (провайдер, дата, время) в Redis
// Нужна при нескольких инстансах сервиса, чтобы конкуренты не доходили до вставки
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewLocker создает блокировщик; ttl <= 0 заменяется на DefaultTTL
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Locker{client: client, ttl: ttl, prefix: DefaultPrefix}
}

// Lease захваченная блокировка
type Lease struct {
	locker *Locker
	key    string
	token  string
}

// Key возвращает ключ блокировки
func (l *Lease) Key() string {
	return l.key
}

// Acquire захватывает слот через SET NX PX
func (l *Locker) Acquire(ctx context.Context, providerID, date, slotTime string) (*Lease, error) {
	key := l.key(providerID, date, slotTime)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Acquire - set %s: %v", ErrRedis, key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLockHeld, key)
	}

	return &Lease{locker: l, key: key, token: token}, nil
}

// Release освобождает блокировку, если она ещё наша
// Истёкшая или перехваченная блокировка не ошибка
func (l *Lease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.locker.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("%w: Release - %s: %v", ErrRedis, l.key, err)
	}
	return nil
}

func (l *Locker) key(providerID, date, slotTime string) string {
	return fmt.Sprintf("%s:%s:%s:%s", l.prefix, providerID, date, slotTime)
}
