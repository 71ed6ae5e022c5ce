package availability

import (
	"github.com/peti-app/appointment-service/internal/domain"
	"github.com/peti-app/appointment-service/pkg/types"
)

// GenerateDailySlots возвращает каноническую сетку слотов на любой рабочий день
// 07:00-11:00 и 14:00-19:00 с шагом в час, по возрастанию. Не зависит от провайдера и даты
func GenerateDailySlots() []types.TimeString {
	slots := make([]types.TimeString, 0, domain.DailySlotsCount)
	slots = appendHourRange(slots, domain.MorningStartHour, domain.MorningEndHour)
	slots = appendHourRange(slots, domain.AfternoonStartHour, domain.AfternoonEndHour)
	return slots
}

func appendHourRange(slots []types.TimeString, startHour, endHour int) []types.TimeString {
	// Часы в пределах суток, ошибки быть не может
	slot, _ := types.NewTimeStringFromMinutes(startHour * 60)
	for slot.Minutes() < endHour*60 {
		slots = append(slots, slot)
		next, err := slot.AddMinutes(domain.AppointmentDurationMinutes)
		if err != nil {
			break
		}
		slot = next
	}
	return slots
}

// IsCanonicalSlot проверяет, что время входит в каноническую сетку
func IsCanonicalSlot(t types.TimeString) bool {
	if t.Validate() != nil || t.Minute() != 0 {
		return false
	}
	hour := t.Hour()
	return (hour >= domain.MorningStartHour && hour < domain.MorningEndHour) ||
		(hour >= domain.AfternoonStartHour && hour < domain.AfternoonEndHour)
}

// ComputeAvailability размечает сетку по существующим записям провайдера на дату
// Отменённые записи и записи других провайдеров/дат игнорируются
// Если на одно время приходится несколько активных записей (нарушение инварианта),
// занимающей считается первая встреченная
func ComputeAvailability(providerID, date string, appointments []*domain.Appointment) []domain.TimeSlot {
	occupants := make(map[types.TimeString]string, len(appointments))
	for _, appointment := range appointments {
		if appointment == nil || !appointment.Occupies(providerID, date, appointment.Time) {
			continue
		}
		if _, taken := occupants[appointment.Time]; taken {
			continue
		}
		occupants[appointment.Time] = appointment.ID
	}

	grid := GenerateDailySlots()
	result := make([]domain.TimeSlot, len(grid))
	for i, slotTime := range grid {
		result[i] = domain.TimeSlot{Time: slotTime, Available: true}
		if id, taken := occupants[slotTime]; taken {
			occupantID := id
			result[i].Available = false
			result[i].AppointmentID = &occupantID
		}
	}

	return result
}

// AllAvailable возвращает всю сетку свободной
// Используется как деградированный ответ, когда хранилище недоступно
func AllAvailable() []domain.TimeSlot {
	grid := GenerateDailySlots()
	result := make([]domain.TimeSlot, len(grid))
	for i, slotTime := range grid {
		result[i] = domain.TimeSlot{Time: slotTime, Available: true}
	}
	return result
}

// CountOccupied возвращает количество занятых слотов
func CountOccupied(slots []domain.TimeSlot) int {
	count := 0
	for i := range slots {
		if slots[i].IsOccupied() {
			count++
		}
	}
	return count
}
