package slotlock

import "errors"

var (
	// ErrLockHeld возвращается, когда слот уже бронируется другим запросом
	ErrLockHeld = errors.New("slotlock: slot is locked by another request")

	// ErrRedis возвращается при ошибках Redis
	ErrRedis = errors.New("slotlock: redis error")
)
