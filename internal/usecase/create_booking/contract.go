package create_booking

import (
	"context"

	"github.com/peti-app/appointment-service/internal/domain"
	"github.com/peti-app/appointment-service/internal/infra/slotlock"
	"github.com/peti-app/appointment-service/internal/integrations/providerservice"
)

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	InsertIfSlotFree(ctx context.Context, appointment *domain.Appointment) error
}

// ProviderDirectory интерфейс клиента каталога провайдеров
type ProviderDirectory interface {
	GetProviderWithGracefulDegradation(ctx context.Context, providerID string) (*providerservice.Provider, error)
}

// SlotLocker интерфейс распределённой блокировки слота
type SlotLocker interface {
	Acquire(ctx context.Context, providerID, date, slotTime string) (*slotlock.Lease, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики бронирования
type Metrics interface {
	IncBookingCreated(status string)
	IncBookingConflict(stage string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
