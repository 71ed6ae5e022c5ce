package get_availability

import (
	"context"
	"fmt"
	"strings"

	"github.com/peti-app/appointment-service/internal/availability"
	"github.com/peti-app/appointment-service/internal/domain"
)

// UseCase use case для получения доступности слотов провайдера
type UseCase struct {
	appointmentRepo AppointmentRepository
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(appointmentRepo AppointmentRepository, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступности
// При ошибке хранилища отвечает всей сеткой свободной с флагом Degraded
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: provider=%s, date=%s", req.ProviderID, req.Date)

	providerID := strings.TrimSpace(req.ProviderID)
	date := strings.TrimSpace(req.Date)

	if providerID == "" {
		uc.logger.Warn("GetAvailability: validation failed: empty providerId")
		return nil, fmt.Errorf("%w: providerId is required", ErrInvalidInput)
	}
	if len(providerID) > domain.MaxIDLength {
		uc.logger.Warn("GetAvailability: validation failed: providerId too long")
		return nil, fmt.Errorf("%w: providerId is too long", ErrInvalidInput)
	}
	if _, err := availability.ParseDate(date); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentFilter{
		ProviderID:       &providerID,
		Date:             &date,
		IncludeCancelled: false,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: store unavailable for provider=%s, date=%s, returning all slots available: %v",
			providerID, date, err)
		if uc.metrics != nil {
			uc.metrics.IncAvailabilityFallback()
		}
		return &Response{
			ProviderID: providerID,
			Date:       date,
			Slots:      availability.AllAvailable(),
			Degraded:   true,
		}, nil
	}

	slots := availability.ComputeAvailability(providerID, date, appointments)

	uc.logger.Info("GetAvailability: provider=%s, date=%s, %d/%d slots occupied",
		providerID, date, availability.CountOccupied(slots), len(slots))

	return &Response{
		ProviderID: providerID,
		Date:       date,
		Slots:      slots,
	}, nil
}
