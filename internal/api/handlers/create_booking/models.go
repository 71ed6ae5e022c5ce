package create_booking

import (
	"time"

	"github.com/peti-app/appointment-service/internal/availability"
	"github.com/peti-app/appointment-service/internal/domain"
	createBooking "github.com/peti-app/appointment-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID       string `json:"providerId"`
	ProviderName     string `json:"providerName"`
	ProviderCategory string `json:"providerCategory"`
	UserName         string `json:"userName"`
	Date             string `json:"date"`             // "2025-10-30"
	Time             string `json:"time"`             // "14:00"
	Status           string `json:"status,omitempty"` // pending | confirmed
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID               string    `json:"id"`
	ProviderID       string    `json:"providerId"`
	ProviderName     string    `json:"providerName"`
	ProviderCategory string    `json:"providerCategory"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	DisplayDate      string    `json:"displayDate"`
	DisplayTime      string    `json:"displayTime"`
	DurationMinutes  int       `json:"durationMinutes"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP request в use case request
func (r *CreateBookingRequest) ToUseCaseRequest(userID string) *createBooking.Request {
	return &createBooking.Request{
		ProviderID:       r.ProviderID,
		ProviderName:     r.ProviderName,
		ProviderCategory: r.ProviderCategory,
		UserID:           userID,
		UserName:         r.UserName,
		Date:             r.Date,
		Time:             r.Time,
		Status:           domain.AppointmentStatus(r.Status),
	}
}

// FromUseCaseResponse конвертирует use case response в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:               resp.ID,
		ProviderID:       resp.ProviderID,
		ProviderName:     resp.ProviderName,
		ProviderCategory: resp.ProviderCategory,
		UserID:           resp.UserID,
		UserName:         resp.UserName,
		Date:             resp.Date,
		Time:             resp.Time.String(),
		DisplayDate:      availability.FormatDateLong(resp.Date),
		DisplayTime:      availability.FormatTimeDisplay(resp.Time.String()),
		DurationMinutes:  resp.DurationMinutes,
		Status:           string(resp.Status),
		CreatedAt:        resp.CreatedAt,
		UpdatedAt:        resp.UpdatedAt,
	}
}
