package domain

// Рабочие часы: утренний и дневной блоки, оба полуинтервалы [start, end)
const (
	MorningStartHour   = 7
	MorningEndHour     = 12
	AfternoonStartHour = 14
	AfternoonEndHour   = 20
)

// AppointmentDurationMinutes длительность одной записи (= шаг сетки)
const AppointmentDurationMinutes = 60

// DailySlotsCount количество слотов в канонической сетке
const DailySlotsCount = (MorningEndHour - MorningStartHour) + (AfternoonEndHour - AfternoonStartHour)

// DefaultInitialStatus статус новой записи, если вызывающий не указал иной
const DefaultInitialStatus = StatusPending

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxIDLength   = 64
	MaxNameLength = 200
)

// InactiveStatuses статусы, которые не занимают слот
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// InitialStatuses допустимые статусы при создании записи
var InitialStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
