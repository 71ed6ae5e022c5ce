package get_provider_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/peti-app/appointment-service/internal/api/handlers"
	"github.com/peti-app/appointment-service/internal/service/appointments"
	"github.com/peti-app/appointment-service/internal/service/appointments/models"
)

const (
	msgInvalidParams = "некорректные параметры запроса: нужен providerId и date в формате YYYY-MM-DD"
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

// Handle GET /api/v1/appointments/provider/{providerId}?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]
	date := r.URL.Query().Get("date")

	result, err := h.service.GetProviderAppointments(r.Context(), &models.GetProviderAppointmentsRequest{
		ProviderID: providerID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments/provider/{id} - Invalid parameters: provider_id=%s, date=%s", providerID, date)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, appointments.ErrStoreUnavailable):
			h.logger.Error("GET /appointments/provider/{id} - Store unavailable: provider_id=%s, error=%v", providerID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /appointments/provider/{id} - Failed to get appointments: provider_id=%s, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/provider/{id} - Appointments retrieved: provider_id=%s, date=%s, count=%d",
		providerID, date, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
