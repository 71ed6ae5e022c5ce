package get_daily_slots

import (
	"net/http"

	"github.com/peti-app/appointment-service/internal/api/handlers"
)

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

// Handle GET /api/v1/slots
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	response := NewDailySlotsResponse()

	h.logger.Info("GET /slots - Daily grid returned: count=%d", len(response.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
