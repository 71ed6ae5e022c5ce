package availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректной дате, времени вне сетки или пустых идентификаторах
	ErrInvalidInput = errors.New("availability: invalid input")

	// ErrSlotOccupied возвращается, когда слот уже занят активной записью
	ErrSlotOccupied = errors.New("availability: slot is occupied")

	// ErrCannotCancel возвращается при попытке отменить завершённую запись
	ErrCannotCancel = errors.New("availability: appointment cannot be cancelled")

	// ErrCannotComplete возвращается при попытке завершить отменённую запись
	ErrCannotComplete = errors.New("availability: appointment cannot be completed")
)
