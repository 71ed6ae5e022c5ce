package complete_booking

import (
	"context"

	"github.com/peti-app/appointment-service/internal/service/appointments/models"
)

type AppointmentService interface {
	Complete(ctx context.Context, id string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
