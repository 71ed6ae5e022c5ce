package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/peti-app/appointment-service/internal/domain"
	"github.com/peti-app/appointment-service/internal/infra/storage/appointment"
)

// Repository in-memory хранилище записей для разработки и тестов
// Возвращает те же ошибки, что и Postgres репозиторий
type Repository struct {
	mu           sync.RWMutex
	appointments map[string]*domain.Appointment
	order        []string // Порядок вставки
}

// NewRepository создает пустое хранилище
func NewRepository() *Repository {
	return &Repository{
		appointments: make(map[string]*domain.Appointment),
	}
}

// InsertIfSlotFree сохраняет запись, если слот свободен
// Проверка и вставка выполняются под одной блокировкой
func (r *Repository) InsertIfSlotFree(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appointments {
		if existing.Occupies(a.ProviderID, a.Date, a.Time) {
			return fmt.Errorf("%w: provider=%s, date=%s, time=%s, appointment id=%s",
				appointment.ErrSlotOccupied, a.ProviderID, a.Date, a.Time, existing.ID)
		}
	}

	if _, exists := r.appointments[a.ID]; exists {
		return fmt.Errorf("%w: duplicate id %s", appointment.ErrExecQuery, a.ID)
	}

	r.appointments[a.ID] = clone(a)
	r.order = append(r.order, a.ID)

	return nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return clone(a), nil
}

// List получает записи по фильтру, сортировка как у Postgres репозитория
func (r *Repository) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, id := range r.order {
		a := r.appointments[id]
		if !matches(a, filter) {
			continue
		}
		result = append(result, clone(a))
	}

	if filter.Date != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Time.IsBefore(result[j].Time)
		})
	} else {
		sort.SliceStable(result, func(i, j int) bool {
			if result[i].Date != result[j].Date {
				return result[i].Date > result[j].Date
			}
			return result[i].Time.IsAfter(result[j].Time)
		})
	}

	return result, nil
}

// Cancel переводит запись в cancelled, cancelled_at сохраняется при повторе
func (r *Repository) Cancel(_ context.Context, id string, cancelledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	if a.IsCompleted() {
		return fmt.Errorf("%w: id=%s, status=%s", appointment.ErrStatusConflict, id, a.Status)
	}

	a.Status = domain.StatusCancelled
	if a.CancelledAt == nil {
		at := cancelledAt
		a.CancelledAt = &at
	}
	a.UpdatedAt = cancelledAt

	return nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus, updatedAt time.Time) error {
	if _, ok := domain.ParseStatus(string(status)); !ok {
		return fmt.Errorf("%w: %q", appointment.ErrInvalidStatus, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}

	a.Status = status
	a.UpdatedAt = updatedAt

	return nil
}

// Reset удаляет все записи
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appointments = make(map[string]*domain.Appointment)
	r.order = nil
}

// Seed загружает демонстрационные записи: провайдер "1", 2025-10-30, 10:00 и 14:00
func (r *Repository) Seed(ctx context.Context, now time.Time) error {
	seed := []*domain.Appointment{
		{
			ID:               "test-1",
			ProviderID:       "1",
			ProviderName:     "PetShop Central",
			ProviderCategory: "Tienda",
			UserID:           "user-001",
			UserName:         "Juan Pérez",
			Date:             "2025-10-30",
			Time:             "10:00",
			DurationMinutes:  domain.AppointmentDurationMinutes,
			Status:           domain.StatusConfirmed,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               "test-2",
			ProviderID:       "1",
			ProviderName:     "PetShop Central",
			ProviderCategory: "Tienda",
			UserID:           "user-002",
			UserName:         "María García",
			Date:             "2025-10-30",
			Time:             "14:00",
			DurationMinutes:  domain.AppointmentDurationMinutes,
			Status:           domain.StatusConfirmed,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}

	for _, a := range seed {
		if err := r.InsertIfSlotFree(ctx, a); err != nil {
			return fmt.Errorf("seed %s: %w", a.ID, err)
		}
	}
	return nil
}

func matches(a *domain.Appointment, filter domain.AppointmentFilter) bool {
	if filter.ProviderID != nil && a.ProviderID != *filter.ProviderID {
		return false
	}
	if filter.UserID != nil && a.UserID != *filter.UserID {
		return false
	}
	if filter.Date != nil && a.Date != *filter.Date {
		return false
	}
	if !filter.IncludeCancelled && a.IsCancelled() {
		return false
	}
	return true
}

func clone(a *domain.Appointment) *domain.Appointment {
	c := *a
	if a.CancelledAt != nil {
		at := *a.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}
