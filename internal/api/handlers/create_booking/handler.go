package create_booking

import (
	"errors"
	"net/http"

	"github.com/peti-app/appointment-service/internal/api/handlers"
	"github.com/peti-app/appointment-service/internal/api/middleware"
	createBooking "github.com/peti-app/appointment-service/internal/usecase/create_booking"
)

const (
	msgMissingUserID    = "отсутствует заголовок X-User-ID"
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidInput     = "некорректные данные записи"
	msgDateInPast       = "нельзя записаться на прошедшую дату"
	msgProviderNotFound = "провайдер не найден"
	msgSlotOccupied     = "этот слот уже занят"
	msgSlotBusy         = "слот сейчас бронируется другим запросом, повторите позже"

	// slotBusyRetryAfter секунды до повтора при чужой блокировке слота
	slotBusyRetryAfter = "1"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: user_id=%s, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /appointments - Date in past: user_id=%s, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrProviderNotFound):
			h.logger.Warn("POST /appointments - Provider not found: provider_id=%s", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createBooking.ErrSlotOccupied):
			h.logger.Warn("POST /appointments - Slot occupied: provider_id=%s, date=%s, time=%s",
				req.ProviderID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotOccupied)

		case errors.Is(err, createBooking.ErrSlotBusy):
			h.logger.Warn("POST /appointments - Slot busy: provider_id=%s, date=%s, time=%s",
				req.ProviderID, req.Date, req.Time)
			w.Header().Set("Retry-After", slotBusyRetryAfter)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, createBooking.ErrStoreUnavailable):
			h.logger.Error("POST /appointments - Store unavailable: user_id=%s, error=%v", userID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, user_id=%s, provider_id=%s",
		result.ID, userID, result.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
