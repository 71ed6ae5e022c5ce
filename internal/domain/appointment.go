package domain

import (
	"time"

	"github.com/peti-app/appointment-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a booked service slot with a provider
type Appointment struct {
	ID               string
	ProviderID       string
	ProviderName     string // Денормализовано для истории
	ProviderCategory string
	UserID           string
	UserName         string
	Date             string // YYYY-MM-DD, локальная дата провайдера
	Time             types.TimeString
	DurationMinutes  int
	Status           AppointmentStatus

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsCompleted returns true if the service was delivered
func (a *Appointment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// CanBeCancelled returns true if the appointment can transition to cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Occupies returns true if the appointment blocks the given provider/date/time
func (a *Appointment) Occupies(providerID, date string, t types.TimeString) bool {
	return a.IsActive() && a.ProviderID == providerID && a.Date == date && a.Time == t
}

// AppointmentFilter фильтр для выборки записей
type AppointmentFilter struct {
	ProviderID       *string // Фильтр по провайдеру (опционально)
	UserID           *string // Фильтр по пользователю (опционально)
	Date             *string // Конкретная дата YYYY-MM-DD (опционально)
	IncludeCancelled bool    // Включать ли отменённые записи
}

// ParseStatus конвертирует строку в AppointmentStatus с валидацией
func ParseStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return status, true
	default:
		return "", false
	}
}
