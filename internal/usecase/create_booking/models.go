package create_booking

import (
	"time"

	"github.com/peti-app/appointment-service/internal/domain"
	"github.com/peti-app/appointment-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ProviderID       string
	ProviderName     string // Используется, если каталог недоступен или не подключен
	ProviderCategory string
	UserID           string // Из заголовка X-User-ID
	UserName         string
	Date             string                   // YYYY-MM-DD
	Time             string                   // HH:MM, одно из значений сетки
	Status           domain.AppointmentStatus // Опционально: pending или confirmed
}

// Response модель ответа с созданной записью
type Response struct {
	ID               string
	ProviderID       string
	ProviderName     string
	ProviderCategory string
	UserID           string
	UserName         string
	Date             string
	Time             types.TimeString
	DurationMinutes  int
	Status           domain.AppointmentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
