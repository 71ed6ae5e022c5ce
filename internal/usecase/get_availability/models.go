package get_availability

import "github.com/peti-app/appointment-service/internal/domain"

// Request модель запроса доступности провайдера на дату
type Request struct {
	ProviderID string
	Date       string // YYYY-MM-DD
}

// Response модель ответа со слотами
type Response struct {
	ProviderID string
	Date       string
	Slots      []domain.TimeSlot
	Degraded   bool // Хранилище недоступно, все слоты показаны свободными
}
