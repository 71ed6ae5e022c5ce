package get_user_appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peti-app/appointment-service/internal/availability"
	"github.com/peti-app/appointment-service/internal/infra/storage/memory"
	"github.com/peti-app/appointment-service/internal/service/appointments"
	"github.com/peti-app/appointment-service/internal/service/appointments/models"
	"github.com/peti-app/appointment-service/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func setup(t *testing.T) (*Handler, *appointments.Service) {
	t.Helper()

	now := time.Date(2025, 10, 29, 9, 0, 0, 0, time.UTC)
	repo := memory.NewRepository()
	require.NoError(t, repo.Seed(context.Background(), now))

	engine := availability.NewEngine(availability.WithTimeProvider(fixedClock{now: now}))
	svc := appointments.NewService(repo, engine, nil, nil, logger.Nop())

	return NewHandler(svc, logger.Nop()), svc
}

func doRequest(h *Handler, userID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/user/"+url.PathEscape(userID)+query, nil)
	req = mux.SetURLVars(req, map[string]string{"userId": userID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) models.AppointmentListResponse {
	t.Helper()
	var resp models.AppointmentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandle_IncludeCancelled(t *testing.T) {
	h, svc := setup(t)

	_, err := svc.Cancel(context.Background(), "test-1")
	require.NoError(t, err)

	rec := doRequest(h, "user-001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec).Appointments)

	rec = doRequest(h, "user-001", "?includeCancelled=true")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "cancelled", resp.Appointments[0].Status)
}

func TestHandle_UnknownUser(t *testing.T) {
	h, _ := setup(t)

	rec := doRequest(h, "user-999", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"appointments":[]`)
}

func TestHandle_BadRequest(t *testing.T) {
	h, _ := setup(t)

	assert.Equal(t, http.StatusBadRequest, doRequest(h, "user-001", "?includeCancelled=maybe").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, " ", "").Code)
}
