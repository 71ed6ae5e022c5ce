package domain

import "github.com/peti-app/appointment-service/pkg/types"

// TimeSlot represents one value of the daily grid marked against existing appointments
type TimeSlot struct {
	Time          types.TimeString
	Available     bool
	AppointmentID *string // Заполнено только для занятого слота
}

// IsOccupied returns true if an active appointment holds the slot
func (s *TimeSlot) IsOccupied() bool {
	return !s.Available
}
