package get_daily_slots

import (
	"github.com/peti-app/appointment-service/internal/availability"
	"github.com/peti-app/appointment-service/internal/domain"
)

// DailySlotsResponse HTTP response model
type DailySlotsResponse struct {
	DurationMinutes int        `json:"durationMinutes"`
	Slots           []GridSlot `json:"slots"`
}

// GridSlot значение сетки с подписью для клиента
type GridSlot struct {
	Time        string `json:"time"`        // "14:00"
	DisplayTime string `json:"displayTime"` // "2:00 PM"
}

// NewDailySlotsResponse строит ответ по канонической сетке
func NewDailySlotsResponse() *DailySlotsResponse {
	grid := availability.GenerateDailySlots()
	slots := make([]GridSlot, len(grid))
	for i, t := range grid {
		slots[i] = GridSlot{
			Time:        t.String(),
			DisplayTime: availability.FormatTimeDisplay(t.String()),
		}
	}

	return &DailySlotsResponse{
		DurationMinutes: domain.AppointmentDurationMinutes,
		Slots:           slots,
	}
}
