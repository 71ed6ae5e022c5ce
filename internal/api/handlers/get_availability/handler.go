package get_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/peti-app/appointment-service/internal/api/handlers"
	getAvailability "github.com/peti-app/appointment-service/internal/usecase/get_availability"
)

const (
	msgInvalidParams = "некорректные параметры запроса: нужен providerId и date в формате YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/availability?date=YYYY-MM-DD
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]
	date := r.URL.Query().Get("date")

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ProviderID: providerID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/availability - Invalid parameters: provider_id=%s, date=%s", providerID, date)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /providers/{id}/availability - Failed to get availability: provider_id=%s, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Degraded {
		h.logger.Warn("GET /providers/{id}/availability - Degraded response: provider_id=%s, date=%s", providerID, date)
	} else {
		h.logger.Info("GET /providers/{id}/availability - Availability retrieved: provider_id=%s, date=%s", providerID, date)
	}
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
