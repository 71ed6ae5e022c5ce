package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peti-app/appointment-service/internal/availability"
	"github.com/peti-app/appointment-service/internal/domain"
	appointmentRepo "github.com/peti-app/appointment-service/internal/infra/storage/appointment"
	"github.com/peti-app/appointment-service/internal/infra/slotlock"
	"github.com/peti-app/appointment-service/internal/integrations/providerservice"
	"github.com/peti-app/appointment-service/pkg/txmanager"
)

// Этапы, на которых обнаружен конфликт (метка метрики)
const (
	conflictStageLock     = "lock"
	conflictStagePrecheck = "precheck"
	conflictStageInsert   = "insert"
)

// Ожидание чужой блокировки слота: попытки с удвоением паузы
const (
	DefaultLockAttempts = 4
	DefaultLockBackoff  = 50 * time.Millisecond
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	engine          *availability.Engine
	txManager       TransactionManager
	logger          Logger

	// Опциональные зависимости
	locker      SlotLocker
	lockTries   int
	lockBackoff time.Duration
	directory   ProviderDirectory
	metrics     Metrics
	autoConfirm bool
}

// Option настройка use case
type Option func(*UseCase)

// WithSlotLocker включает Redis блокировку слота
func WithSlotLocker(locker SlotLocker) Option {
	return func(uc *UseCase) { uc.locker = locker }
}

// WithLockWait задает число попыток захвата блокировки и начальную паузу между ними
func WithLockWait(attempts int, backoff time.Duration) Option {
	return func(uc *UseCase) {
		if attempts < 1 {
			attempts = 1
		}
		uc.lockTries = attempts
		uc.lockBackoff = backoff
	}
}

// WithProviderDirectory включает получение названий из каталога провайдеров
func WithProviderDirectory(directory ProviderDirectory) Option {
	return func(uc *UseCase) { uc.directory = directory }
}

// WithMetrics включает бизнес-метрики
func WithMetrics(metrics Metrics) Option {
	return func(uc *UseCase) { uc.metrics = metrics }
}

// WithAutoConfirm создаёт записи сразу в статусе confirmed, если статус не указан
func WithAutoConfirm(autoConfirm bool) Option {
	return func(uc *UseCase) { uc.autoConfirm = autoConfirm }
}

// NewUseCase создает новый экземпляр use case
// txManager может быть nil (in-memory хранилище)
func NewUseCase(
	appointmentRepo AppointmentRepository,
	engine *availability.Engine,
	txManager TransactionManager,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		appointmentRepo: appointmentRepo,
		engine:          engine,
		txManager:       txManager,
		logger:          logger,
		lockTries:       DefaultLockAttempts,
		lockBackoff:     DefaultLockBackoff,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute выполняет use case создания записи
// Окончательно конфликт определяет атомарная вставка в хранилище
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: provider=%s, user=%s, date=%s, time=%s",
		req.ProviderID, req.UserID, req.Date, req.Time)

	// 1. Валидация входных данных
	data, err := uc.normalize(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не в прошлом
	if !uc.engine.IsValidBookingDate(data.Date) {
		uc.logger.Warn("CreateBooking: date %s is in the past", data.Date)
		return nil, fmt.Errorf("%w: %s", ErrDateInPast, data.Date)
	}

	// 3. Блокировка слота между инстансами
	if uc.locker != nil {
		lease, err := uc.acquireLock(ctx, data)
		switch {
		case errors.Is(err, slotlock.ErrLockHeld):
			// Чужая блокировка не означает занятый слот
			uc.logger.Warn("CreateBooking: slot provider=%s, date=%s, time=%s is being booked concurrently",
				data.ProviderID, data.Date, data.Time)
			uc.incConflict(conflictStageLock)
			return nil, fmt.Errorf("%w: %v", ErrSlotBusy, err)
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			uc.logger.Warn("CreateBooking: slot lock unavailable, continuing without it: %v", err)
		default:
			defer func() {
				if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
					uc.logger.Warn("CreateBooking: failed to release slot lock %s: %v", lease.Key(), err)
				}
			}()
		}
	}

	// 4. Денормализованные данные провайдера
	if err := uc.resolveProvider(ctx, &data); err != nil {
		return nil, err
	}

	// 5. Проверка и вставка в сериализуемой транзакции
	var created *domain.Appointment
	err = uc.inTx(ctx, func(txCtx context.Context) error {
		providerID, date := data.ProviderID, data.Date
		existing, err := uc.appointmentRepo.List(txCtx, domain.AppointmentFilter{
			ProviderID: &providerID,
			Date:       &date,
		})
		if err != nil {
			return fmt.Errorf("%w: list appointments: %w", ErrStoreUnavailable, err)
		}

		appointment, err := uc.engine.CreateBooking(data, existing)
		if err != nil {
			if errors.Is(err, availability.ErrSlotOccupied) {
				uc.incConflict(conflictStagePrecheck)
				return fmt.Errorf("%w: %v", ErrSlotOccupied, err)
			}
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := uc.appointmentRepo.InsertIfSlotFree(txCtx, appointment); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotOccupied) {
				uc.incConflict(conflictStageInsert)
				return fmt.Errorf("%w: %v", ErrSlotOccupied, err)
			}
			return fmt.Errorf("%w: insert appointment: %w", ErrStoreUnavailable, err)
		}

		created = appointment
		return nil
	})

	if err != nil {
		return nil, uc.translateTxError(err)
	}

	if uc.metrics != nil {
		uc.metrics.IncBookingCreated(string(created.Status))
	}
	uc.logger.Info("CreateBooking: successfully created appointment id=%s, status=%s", created.ID, created.Status)

	return &Response{
		ID:               created.ID,
		ProviderID:       created.ProviderID,
		ProviderName:     created.ProviderName,
		ProviderCategory: created.ProviderCategory,
		UserID:           created.UserID,
		UserName:         created.UserName,
		Date:             created.Date,
		Time:             created.Time,
		DurationMinutes:  created.DurationMinutes,
		Status:           created.Status,
		CreatedAt:        created.CreatedAt,
		UpdatedAt:        created.UpdatedAt,
	}, nil
}

// acquireLock ждёт освобождения чужой блокировки с ограниченным числом попыток
func (uc *UseCase) acquireLock(ctx context.Context, data availability.BookingData) (*slotlock.Lease, error) {
	backoff := uc.lockBackoff
	for attempt := 1; ; attempt++ {
		lease, err := uc.locker.Acquire(ctx, data.ProviderID, data.Date, data.Time)
		if !errors.Is(err, slotlock.ErrLockHeld) || attempt >= uc.lockTries {
			return lease, err
		}

		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (uc *UseCase) normalize(req *Request) (availability.BookingData, error) {
	status := req.Status
	if status == "" && uc.autoConfirm {
		status = domain.StatusConfirmed
	}

	data, err := availability.NormalizeBookingData(availability.BookingData{
		ProviderID:       req.ProviderID,
		ProviderName:     req.ProviderName,
		ProviderCategory: req.ProviderCategory,
		UserID:           req.UserID,
		UserName:         req.UserName,
		Date:             req.Date,
		Time:             req.Time,
		Status:           status,
	})
	if err != nil {
		return availability.BookingData{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return data, nil
}

// resolveProvider подставляет название и категорию из каталога
// Недоступный каталог не блокирует запись: остаются значения из запроса
func (uc *UseCase) resolveProvider(ctx context.Context, data *availability.BookingData) error {
	if uc.directory == nil {
		return nil
	}

	provider, err := uc.directory.GetProviderWithGracefulDegradation(ctx, data.ProviderID)
	if err != nil {
		if errors.Is(err, providerservice.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%s not found", data.ProviderID)
			return fmt.Errorf("%w: id=%s", ErrProviderNotFound, data.ProviderID)
		}
		uc.logger.Warn("CreateBooking: using provider data from request for id=%s: %v", data.ProviderID, err)
		return nil
	}

	if provider.Name != "" {
		data.ProviderName = provider.Name
	}
	if provider.Category != "" {
		data.ProviderCategory = provider.Category
	}
	return nil
}

func (uc *UseCase) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if uc.txManager == nil {
		return fn(ctx)
	}
	return uc.txManager.DoSerializable(ctx, fn)
}

// translateTxError приводит ошибку транзакции к ошибкам use case
func (uc *UseCase) translateTxError(err error) error {
	switch {
	case errors.Is(err, ErrSlotOccupied):
		uc.logger.Warn("CreateBooking: %v", err)
		return err
	case errors.Is(err, ErrInvalidInput):
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return err
	case txmanager.IsRetryable(err):
		// Повторы исчерпаны: конкурентная запись на тот же слот
		uc.logger.Warn("CreateBooking: serialization conflict after retries: %v", err)
		uc.incConflict(conflictStageInsert)
		return fmt.Errorf("%w: %v", ErrSlotOccupied, err)
	case errors.Is(err, ErrStoreUnavailable):
		uc.logger.Error("CreateBooking: %v", err)
		return err
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func (uc *UseCase) incConflict(stage string) {
	if uc.metrics != nil {
		uc.metrics.IncBookingConflict(stage)
	}
}
