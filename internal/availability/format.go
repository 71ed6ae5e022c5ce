package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/peti-app/appointment-service/internal/domain"
)

// FormatTimeDisplay переводит "HH:MM" (24 часа) в "H:MM AM/PM"
// Некорректный ввод (нет двоеточия, не числа, час вне 0-23, минуты вне 0-59)
// возвращается без изменений. Части разбираются strconv.Atoi после обрезки пробелов,
// поэтому "9:00" допустимо, а "9x:00" - нет
func FormatTimeDisplay(time24 string) string {
	if !strings.Contains(time24, ":") {
		return time24
	}

	parts := strings.Split(time24, ":")
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time24
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time24
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return time24
	}

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}

	hours12 := hours
	switch {
	case hours > 12:
		hours12 = hours - 12
	case hours == 0:
		hours12 = 12
	}

	return fmt.Sprintf("%d:%02d %s", hours12, minutes, period)
}

// isValidBookingDate - дата сегодня или позже; сравниваются только календарные дни
// в часовом поясе now
func isValidBookingDate(date string, now time.Time) bool {
	selected, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(date), now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !selected.Before(today)
}

var weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var monthsES = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDateLong форматирует дату для клиентов: "jueves, 30 de octubre de 2025"
// Принимает YYYY-MM-DD или RFC3339. Пустая строка -> "", нераспознанная -> без изменений
func FormatDateLong(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}

	var parsed time.Time
	var err error
	if strings.Contains(date, "T") {
		parsed, err = time.Parse(time.RFC3339, date)
	} else {
		parsed, err = time.Parse(domain.DateFormat, date)
	}
	if err != nil {
		return date
	}

	return fmt.Sprintf("%s, %d de %s de %d",
		weekdaysES[parsed.Weekday()], parsed.Day(), monthsES[parsed.Month()-1], parsed.Year())
}
