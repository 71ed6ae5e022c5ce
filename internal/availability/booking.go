package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/peti-app/appointment-service/internal/domain"
	"github.com/peti-app/appointment-service/pkg/types"
)

// BookingData данные новой записи
type BookingData struct {
	ProviderID       string
	ProviderName     string
	ProviderCategory string
	UserID           string
	UserName         string
	Date             string
	Time             string
	Status           domain.AppointmentStatus // Пусто = domain.DefaultInitialStatus
}

// CreateBooking валидирует запрос и строит новую запись
// existing - активные записи провайдера на эту дату (лишние фильтруются)
// Проверка здесь оптимистичная: окончательное решение принимает атомарная вставка в хранилище
func (e *Engine) CreateBooking(data BookingData, existing []*domain.Appointment) (*domain.Appointment, error) {
	slotTime, status, err := validateBookingData(&data)
	if err != nil {
		return nil, err
	}

	for _, appointment := range existing {
		if appointment != nil && appointment.Occupies(data.ProviderID, data.Date, slotTime) {
			return nil, fmt.Errorf("%w: provider=%s, date=%s, time=%s, appointment id=%s",
				ErrSlotOccupied, data.ProviderID, data.Date, slotTime, appointment.ID)
		}
	}

	now := e.timeProvider.Now()

	return &domain.Appointment{
		ID:               e.idGenerator.NewID(),
		ProviderID:       data.ProviderID,
		ProviderName:     data.ProviderName,
		ProviderCategory: data.ProviderCategory,
		UserID:           data.UserID,
		UserName:         data.UserName,
		Date:             data.Date,
		Time:             slotTime,
		DurationMinutes:  domain.AppointmentDurationMinutes,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Cancel переводит запись в статус cancelled
// Повторная отмена - успешный no-op (changed = false)
func (e *Engine) Cancel(appointment *domain.Appointment) (bool, error) {
	if appointment == nil {
		return false, fmt.Errorf("%w: appointment is nil", ErrInvalidInput)
	}

	if appointment.IsCancelled() {
		return false, nil
	}

	if !appointment.CanBeCancelled() {
		return false, fmt.Errorf("%w: status=%s", ErrCannotCancel, appointment.Status)
	}

	now := e.timeProvider.Now()
	appointment.Status = domain.StatusCancelled
	appointment.CancelledAt = &now
	appointment.UpdatedAt = now

	return true, nil
}

// Complete переводит запись в статус completed после оказания услуги
// Повторный вызов - успешный no-op
func (e *Engine) Complete(appointment *domain.Appointment) (bool, error) {
	if appointment == nil {
		return false, fmt.Errorf("%w: appointment is nil", ErrInvalidInput)
	}

	if appointment.IsCompleted() {
		return false, nil
	}

	if appointment.IsCancelled() {
		return false, fmt.Errorf("%w: status=%s", ErrCannotComplete, appointment.Status)
	}

	appointment.Status = domain.StatusCompleted
	appointment.UpdatedAt = e.timeProvider.Now()

	return true, nil
}

// validateBookingData нормализует и проверяет данные записи
func validateBookingData(data *BookingData) (types.TimeString, domain.AppointmentStatus, error) {
	data.ProviderID = strings.TrimSpace(data.ProviderID)
	data.UserID = strings.TrimSpace(data.UserID)
	data.Date = strings.TrimSpace(data.Date)

	if data.ProviderID == "" {
		return "", "", fmt.Errorf("%w: providerID is required", ErrInvalidInput)
	}
	if len(data.ProviderID) > domain.MaxIDLength {
		return "", "", fmt.Errorf("%w: providerID is too long", ErrInvalidInput)
	}

	if data.UserID == "" {
		return "", "", fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if len(data.UserID) > domain.MaxIDLength {
		return "", "", fmt.Errorf("%w: userID is too long", ErrInvalidInput)
	}

	if len(data.ProviderName) > domain.MaxNameLength ||
		len(data.ProviderCategory) > domain.MaxNameLength ||
		len(data.UserName) > domain.MaxNameLength {
		return "", "", fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}

	if _, err := ParseDate(data.Date); err != nil {
		return "", "", err
	}

	slotTime, err := types.NewTimeStringFromString(data.Time)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid time %q: %v", ErrInvalidInput, data.Time, err)
	}
	if !IsCanonicalSlot(slotTime) {
		return "", "", fmt.Errorf("%w: time %s is not a bookable slot", ErrInvalidInput, slotTime)
	}

	status := data.Status
	if status == "" {
		status = domain.DefaultInitialStatus
	}
	if !isInitialStatus(status) {
		return "", "", fmt.Errorf("%w: initial status %q is not allowed", ErrInvalidInput, status)
	}

	data.Time = slotTime.String()
	data.Status = status

	return slotTime, status, nil
}

// NormalizeBookingData проверяет данные записи без учёта занятости слота
// и возвращает нормализованную копию (обрезанные идентификаторы, статус по умолчанию)
func NormalizeBookingData(data BookingData) (BookingData, error) {
	if _, _, err := validateBookingData(&data); err != nil {
		return BookingData{}, err
	}
	return data, nil
}

func isInitialStatus(status domain.AppointmentStatus) bool {
	for _, s := range domain.InitialStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ParseDate парсит дату YYYY-MM-DD (UTC, без времени)
func ParseDate(date string) (time.Time, error) {
	parsed, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, date)
	}
	return parsed, nil
}
