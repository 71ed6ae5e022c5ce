package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/peti-app/appointment-service/internal/availability"
	"github.com/peti-app/appointment-service/internal/domain"
	appointmentRepo "github.com/peti-app/appointment-service/internal/infra/storage/appointment"
	"github.com/peti-app/appointment-service/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	engine          *availability.Engine
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
// txManager и metrics могут быть nil
func NewService(
	appointmentRepo AppointmentRepository,
	engine *availability.Engine,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		engine:          engine,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%s", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetUserAppointments получает историю записей пользователя
// Отменённые записи возвращаются только при IncludeCancelled
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%s, includeCancelled=%t", req.UserID, req.IncludeCancelled)

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		UserID:           &userID,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%s", len(appointments), userID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetProviderAppointments получает активные записи провайдера на дату, по времени
func (s *Service) GetProviderAppointments(ctx context.Context, req *models.GetProviderAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetProviderAppointments: fetching appointments for provider=%s, date=%s", req.ProviderID, req.Date)

	providerID := strings.TrimSpace(req.ProviderID)
	date := strings.TrimSpace(req.Date)
	if providerID == "" {
		return nil, fmt.Errorf("%w: providerId is required", ErrInvalidInput)
	}
	if _, err := availability.ParseDate(date); err != nil {
		s.logger.Warn("GetProviderAppointments: invalid date=%s", req.Date)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		ProviderID: &providerID,
		Date:       &date,
	})
	if err != nil {
		s.logger.Error("GetProviderAppointments: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetProviderAppointments - repository error: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("GetProviderAppointments: successfully fetched %d appointments for provider=%s", len(appointments), providerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись и освобождает слот
// Повторная отмена успешна и не меняет cancelledAt
func (s *Service) Cancel(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s", id)

	var result *domain.Appointment
	var changed bool

	err := s.inTx(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		changed, err = s.engine.Cancel(appointment)
		if err != nil {
			s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", id, appointment.Status)
			return fmt.Errorf("%w: %v", ErrCannotCancel, err)
		}

		if changed {
			if err := s.appointmentRepo.Cancel(txCtx, id, *appointment.CancelledAt); err != nil {
				// Запись завершили между чтением и отменой
				if errors.Is(err, appointmentRepo.ErrStatusConflict) {
					s.logger.Warn("Cancel: appointment id=%s changed status concurrently: %v", id, err)
					return fmt.Errorf("%w: %v", ErrCannotCancel, err)
				}
				return s.translateRepoError("Cancel", id, err)
			}
		}

		result = appointment
		return nil
	})
	if err != nil {
		return nil, s.translateTxError(err)
	}

	if !changed {
		s.logger.Info("Cancel: appointment id=%s already cancelled", id)
		return models.FromDomainAppointment(result), nil
	}

	if s.metrics != nil {
		s.metrics.IncAppointmentCancelled()
	}
	s.logger.Info("Cancel: successfully cancelled appointment id=%s", id)
	return models.FromDomainAppointment(result), nil
}

// Complete отмечает запись как выполненную
func (s *Service) Complete(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("Complete: completing appointment id=%s", id)

	var result *domain.Appointment

	err := s.inTx(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "Complete", id)
		if err != nil {
			return err
		}

		changed, err := s.engine.Complete(appointment)
		if err != nil {
			s.logger.Warn("Complete: appointment id=%s cannot be completed, status=%s", id, appointment.Status)
			return fmt.Errorf("%w: %v", ErrCannotComplete, err)
		}

		if changed {
			if err := s.appointmentRepo.UpdateStatus(txCtx, id, appointment.Status, appointment.UpdatedAt); err != nil {
				return s.translateRepoError("Complete", id, err)
			}
		}

		result = appointment
		return nil
	})
	if err != nil {
		return nil, s.translateTxError(err)
	}

	s.logger.Info("Complete: appointment id=%s is completed", id)
	return models.FromDomainAppointment(result), nil
}

func (s *Service) getAppointment(ctx context.Context, op, id string) (*domain.Appointment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(op, id, err)
	}
	return appointment, nil
}

func (s *Service) translateRepoError(op, id string, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%s not found", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrStoreUnavailable, op, err)
}

// translateTxError пропускает ошибки сервиса, ошибки begin/commit считаются недоступностью хранилища
func (s *Service) translateTxError(err error) error {
	for _, known := range []error{ErrAppointmentNotFound, ErrCannotCancel, ErrCannotComplete, ErrInvalidInput, ErrStoreUnavailable} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("transaction failed: %v", err)
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.Do(ctx, fn)
}
