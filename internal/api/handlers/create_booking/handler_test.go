package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peti-app/appointment-service/internal/api/middleware"
	"github.com/peti-app/appointment-service/internal/domain"
	createBooking "github.com/peti-app/appointment-service/internal/usecase/create_booking"
	"github.com/peti-app/appointment-service/pkg/logger"
)

type stubUseCase struct {
	resp *createBooking.Response
	err  error
	got  *createBooking.Request
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	return s.resp, s.err
}

const validBody = `{"providerId":"1","providerName":"PetShop Central","providerCategory":"Tienda",` +
	`"userName":"Juan Pérez","date":"2025-10-30","time":"14:00"}`

func doRequest(h *Handler, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	now := time.Date(2025, 10, 29, 9, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &createBooking.Response{
		ID: "appt-1", ProviderID: "1", ProviderName: "PetShop Central", ProviderCategory: "Tienda",
		UserID: "user-001", UserName: "Juan Pérez", Date: "2025-10-30", Time: "14:00",
		DurationMinutes: 60, Status: domain.StatusPending, CreatedAt: now, UpdatedAt: now,
	}}

	rec := doRequest(NewHandler(uc, logger.Nop()), "user-001", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-001", uc.got.UserID)
	assert.Equal(t, "14:00", uc.got.Time)
	assert.Empty(t, uc.got.Status)

	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "appt-1", resp.ID)
	assert.Equal(t, "2:00 PM", resp.DisplayTime)
	assert.Equal(t, "jueves, 30 de octubre de 2025", resp.DisplayDate)
	assert.Equal(t, "pending", resp.Status)
}

func TestHandle_MissingUser(t *testing.T) {
	uc := &stubUseCase{}
	rec := doRequest(NewHandler(uc, logger.Nop()), "", validBody)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &stubUseCase{}
	rec := doRequest(NewHandler(uc, logger.Nop()), "user-001", `{"providerId":1`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_SlotBusy(t *testing.T) {
	rec := doRequest(NewHandler(&stubUseCase{err: createBooking.ErrSlotBusy}, logger.Nop()), "user-001", validBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), msgSlotBusy)
	assert.NotContains(t, rec.Body.String(), msgSlotOccupied)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"date in past", createBooking.ErrDateInPast, http.StatusBadRequest},
		{"provider not found", createBooking.ErrProviderNotFound, http.StatusNotFound},
		{"slot occupied", createBooking.ErrSlotOccupied, http.StatusConflict},
		{"store unavailable", createBooking.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(NewHandler(&stubUseCase{err: tt.err}, logger.Nop()), "user-001", validBody)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
