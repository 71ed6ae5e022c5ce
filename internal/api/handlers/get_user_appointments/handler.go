package get_user_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/peti-app/appointment-service/internal/api/handlers"
	"github.com/peti-app/appointment-service/internal/service/appointments"
	"github.com/peti-app/appointment-service/internal/service/appointments/models"
)

const (
	msgInvalidUserID           = "не указан идентификатор пользователя"
	msgInvalidIncludeCancelled = "includeCancelled должен быть true или false"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/user/{userId}?includeCancelled=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	includeCancelled := false
	if raw := r.URL.Query().Get("includeCancelled"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /appointments/user/{id} - Invalid includeCancelled: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidIncludeCancelled)
			return
		}
		includeCancelled = parsed
	}

	result, err := h.service.GetUserAppointments(r.Context(), &models.GetUserAppointmentsRequest{
		UserID:           userID,
		IncludeCancelled: includeCancelled,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments/user/{id} - Invalid user ID: %q", userID)
			handlers.RespondBadRequest(w, msgInvalidUserID)

		case errors.Is(err, appointments.ErrStoreUnavailable):
			h.logger.Error("GET /appointments/user/{id} - Store unavailable: user_id=%s, error=%v", userID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /appointments/user/{id} - Failed to get appointments: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/user/{id} - Appointments retrieved: user_id=%s, count=%d",
		userID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
