package availability

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peti-app/appointment-service/internal/domain"
	"github.com/peti-app/appointment-service/pkg/types"
)

var testNow = time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)

func validBookingData() BookingData {
	return BookingData{
		ProviderID:       "P1",
		ProviderName:     "PetShop Central",
		ProviderCategory: "Tienda",
		UserID:           "user-001",
		UserName:         "Juan Pérez",
		Date:             "2025-10-30",
		Time:             "10:00",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	engine := newTestEngine(testNow)

	appointment, err := engine.CreateBooking(validBookingData(), nil)

	require.NoError(t, err)
	assert.Equal(t, "appt-1", appointment.ID)
	assert.Equal(t, "P1", appointment.ProviderID)
	assert.Equal(t, "user-001", appointment.UserID)
	assert.Equal(t, "2025-10-30", appointment.Date)
	assert.Equal(t, types.TimeString("10:00"), appointment.Time)
	assert.Equal(t, domain.AppointmentDurationMinutes, appointment.DurationMinutes)
	assert.Equal(t, domain.StatusPending, appointment.Status)
	assert.Equal(t, testNow, appointment.CreatedAt)
	assert.Equal(t, testNow, appointment.UpdatedAt)
	assert.Nil(t, appointment.CancelledAt)
}

func TestCreateBooking_ExplicitConfirmed(t *testing.T) {
	engine := newTestEngine(testNow)
	data := validBookingData()
	data.Status = domain.StatusConfirmed

	appointment, err := engine.CreateBooking(data, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, appointment.Status)
}

func TestCreateBooking_Conflict(t *testing.T) {
	engine := newTestEngine(testNow)
	existing := []*domain.Appointment{
		{ID: "held", ProviderID: "P1", Date: "2025-10-30", Time: "10:00", Status: domain.StatusConfirmed},
	}

	_, err := engine.CreateBooking(validBookingData(), existing)
	require.ErrorIs(t, err, ErrSlotOccupied)
	assert.Contains(t, err.Error(), "held")

	// Соседний слот свободен
	data := validBookingData()
	data.Time = "11:00"
	appointment, err := engine.CreateBooking(data, existing)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:00"), appointment.Time)
}

func TestCreateBooking_CancelledDoesNotConflict(t *testing.T) {
	engine := newTestEngine(testNow)
	existing := []*domain.Appointment{
		{ID: "gone", ProviderID: "P1", Date: "2025-10-30", Time: "10:00", Status: domain.StatusCancelled},
	}

	_, err := engine.CreateBooking(validBookingData(), existing)
	assert.NoError(t, err)
}

func TestCreateBooking_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingData)
	}{
		{name: "empty provider", mutate: func(d *BookingData) { d.ProviderID = "  " }},
		{name: "empty user", mutate: func(d *BookingData) { d.UserID = "" }},
		{name: "provider too long", mutate: func(d *BookingData) { d.ProviderID = strings.Repeat("p", domain.MaxIDLength+1) }},
		{name: "name too long", mutate: func(d *BookingData) { d.UserName = strings.Repeat("n", domain.MaxNameLength+1) }},
		{name: "bad date", mutate: func(d *BookingData) { d.Date = "30/10/2025" }},
		{name: "impossible date", mutate: func(d *BookingData) { d.Date = "2025-02-30" }},
		{name: "bad time", mutate: func(d *BookingData) { d.Time = "10am" }},
		{name: "lunch break", mutate: func(d *BookingData) { d.Time = "12:00" }},
		{name: "half hour", mutate: func(d *BookingData) { d.Time = "10:30" }},
		{name: "after hours", mutate: func(d *BookingData) { d.Time = "20:00" }},
		{name: "cancelled initial status", mutate: func(d *BookingData) { d.Status = domain.StatusCancelled }},
		{name: "unknown status", mutate: func(d *BookingData) { d.Status = "archived" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(testNow)
			data := validBookingData()
			tt.mutate(&data)

			_, err := engine.CreateBooking(data, nil)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateBooking_TrimsIdentifiers(t *testing.T) {
	engine := newTestEngine(testNow)
	data := validBookingData()
	data.ProviderID = " P1 "
	data.Time = " 10:00 "

	appointment, err := engine.CreateBooking(data, nil)

	require.NoError(t, err)
	assert.Equal(t, "P1", appointment.ProviderID)
	assert.Equal(t, types.TimeString("10:00"), appointment.Time)
}

func TestCreateBooking_ThenAvailability(t *testing.T) {
	engine := newTestEngine(testNow)
	var stored []*domain.Appointment

	for _, slot := range []string{"10:00", "14:00"} {
		data := validBookingData()
		data.ProviderID = "1"
		data.Time = slot
		appointment, err := engine.CreateBooking(data, stored)
		require.NoError(t, err)
		stored = append(stored, appointment)
	}

	slots := ComputeAvailability("1", "2025-10-30", stored)
	assert.Equal(t, 2, CountOccupied(slots))

	_, err := engine.Cancel(stored[0])
	require.NoError(t, err)

	slots = ComputeAvailability("1", "2025-10-30", stored)
	assert.Equal(t, 1, CountOccupied(slots))
}

func TestCancel(t *testing.T) {
	engine := newTestEngine(testNow)
	appointment := &domain.Appointment{ID: "a1", Status: domain.StatusConfirmed}

	changed, err := engine.Cancel(appointment)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.StatusCancelled, appointment.Status)
	require.NotNil(t, appointment.CancelledAt)
	assert.Equal(t, testNow, *appointment.CancelledAt)

	// Повторная отмена ничего не меняет
	changed, err = engine.Cancel(appointment)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, testNow, *appointment.CancelledAt)
}

func TestCancel_Completed(t *testing.T) {
	engine := newTestEngine(testNow)
	appointment := &domain.Appointment{ID: "a1", Status: domain.StatusCompleted}

	changed, err := engine.Cancel(appointment)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.False(t, changed)
	assert.Equal(t, domain.StatusCompleted, appointment.Status)
}

func TestComplete(t *testing.T) {
	engine := newTestEngine(testNow)
	appointment := &domain.Appointment{ID: "a1", Status: domain.StatusPending}

	changed, err := engine.Complete(appointment)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.StatusCompleted, appointment.Status)

	changed, err = engine.Complete(appointment)
	require.NoError(t, err)
	assert.False(t, changed)

	cancelled := &domain.Appointment{ID: "a2", Status: domain.StatusCancelled}
	_, err = engine.Complete(cancelled)
	assert.ErrorIs(t, err, ErrCannotComplete)
}

func TestNormalizeBookingData(t *testing.T) {
	data := validBookingData()
	data.ProviderID = " P1 "
	data.Time = "10:00 "

	normalized, err := NormalizeBookingData(data)

	require.NoError(t, err)
	assert.Equal(t, "P1", normalized.ProviderID)
	assert.Equal(t, "10:00", normalized.Time)
	assert.Equal(t, domain.StatusPending, normalized.Status)

	data.Time = "13:00"
	_, err = NormalizeBookingData(data)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
