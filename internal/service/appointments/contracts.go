package appointments

import (
	"context"
	"time"

	"github.com/peti-app/appointment-service/internal/domain"
)

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id string, cancelledAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus, updatedAt time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики (опционально)
type Metrics interface {
	IncAppointmentCancelled()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
