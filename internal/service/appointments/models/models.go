package models

import (
	"time"

	"github.com/peti-app/appointment-service/internal/availability"
	"github.com/peti-app/appointment-service/internal/domain"
)

// Request модели

// GetUserAppointmentsRequest запрос на получение записей пользователя
type GetUserAppointmentsRequest struct {
	UserID           string `json:"userId"`
	IncludeCancelled bool   `json:"includeCancelled,omitempty"`
}

// GetProviderAppointmentsRequest запрос на получение записей провайдера на дату
type GetProviderAppointmentsRequest struct {
	ProviderID string `json:"providerId"`
	Date       string `json:"date"` // "2025-10-30"
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID               string `json:"id"`
	ProviderID       string `json:"providerId"`
	ProviderName     string `json:"providerName"`
	ProviderCategory string `json:"providerCategory"`
	UserID           string `json:"userId"`
	UserName         string `json:"userName"`
	Date             string `json:"date"`        // "2025-10-30"
	Time             string `json:"time"`        // "10:00"
	DisplayDate      string `json:"displayDate"` // "jueves, 30 de octubre de 2025"
	DisplayTime      string `json:"displayTime"` // "10:00 AM"
	DurationMinutes  int    `json:"durationMinutes"`
	Status           string `json:"status"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:               a.ID,
		ProviderID:       a.ProviderID,
		ProviderName:     a.ProviderName,
		ProviderCategory: a.ProviderCategory,
		UserID:           a.UserID,
		UserName:         a.UserName,
		Date:             a.Date,
		Time:             a.Time.String(),
		DisplayDate:      availability.FormatDateLong(a.Date),
		DisplayTime:      availability.FormatTimeDisplay(a.Time.String()),
		DurationMinutes:  a.DurationMinutes,
		Status:           string(a.Status),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}
