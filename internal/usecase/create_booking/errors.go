package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrDateInPast возвращается, когда дата записи раньше сегодняшней
	ErrDateInPast = errors.New("create_booking: date is in the past")

	// ErrSlotOccupied возвращается, когда слот уже занят
	ErrSlotOccupied = errors.New("create_booking: slot is occupied")

	// ErrSlotBusy возвращается, когда слот дольше допустимого заблокирован параллельным запросом
	// Слот при этом может быть свободен, запрос можно повторить
	ErrSlotBusy = errors.New("create_booking: slot is being booked by another request")

	// ErrProviderNotFound возвращается, когда провайдер не найден в каталоге
	ErrProviderNotFound = errors.New("create_booking: provider not found")

	// ErrStoreUnavailable возвращается при ошибках хранилища
	ErrStoreUnavailable = errors.New("create_booking: store unavailable")
)
