package get_availability

import (
	"github.com/peti-app/appointment-service/internal/availability"
	getAvailability "github.com/peti-app/appointment-service/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ProviderID  string          `json:"providerId"`
	Date        string          `json:"date"`
	DisplayDate string          `json:"displayDate"`
	Degraded    bool            `json:"degraded"`
	Slots       []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time          string  `json:"time"`
	DisplayTime   string  `json:"displayTime"`
	Available     bool    `json:"available"`
	AppointmentID *string `json:"appointmentId,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:          slot.Time.String(),
			DisplayTime:   availability.FormatTimeDisplay(slot.Time.String()),
			Available:     slot.Available,
			AppointmentID: slot.AppointmentID,
		}
	}

	return &AvailabilityResponse{
		ProviderID:  resp.ProviderID,
		Date:        resp.Date,
		DisplayDate: availability.FormatDateLong(resp.Date),
		Degraded:    resp.Degraded,
		Slots:       slots,
	}
}
