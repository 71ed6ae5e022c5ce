package appointment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peti-app/appointment-service/internal/domain"
	"github.com/peti-app/appointment-service/pkg/dbmetrics"
	"github.com/peti-app/appointment-service/pkg/types"
)

func newRepository(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db := dbmetrics.Wrap(sqlDB, nil)
	return NewRepository(db), db, mock
}

func newAppointment() *domain.Appointment {
	now := time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:               "test-1",
		ProviderID:       "1",
		ProviderName:     "PetShop Central",
		ProviderCategory: "Tienda",
		UserID:           "user-001",
		UserName:         "Juan Pérez",
		Date:             "2025-10-30",
		Time:             "10:00",
		DurationMinutes:  60,
		Status:           domain.StatusConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

const insertPattern = `INSERT INTO appointments .+ ON CONFLICT \(provider_id, appointment_date, start_time\) WHERE status <> 'cancelled' DO NOTHING RETURNING id`

func TestInsertIfSlotFree_Success(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("test-1"))

	err := repo.InsertIfSlotFree(context.Background(), newAppointment())

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIfSlotFree_NoRowsMeansOccupied(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.InsertIfSlotFree(context.Background(), newAppointment())

	assert.ErrorIs(t, err, ErrSlotOccupied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIfSlotFree_UniqueViolation(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(insertPattern).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.InsertIfSlotFree(context.Background(), newAppointment())

	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestInsertIfSlotFree_KeepsDriverError(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(insertPattern).
		WillReturnError(&pq.Error{Code: "40001"})

	err := repo.InsertIfSlotFree(context.Background(), newAppointment())

	assert.ErrorIs(t, err, ErrExecQuery)
	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func appointmentRows() *sqlmock.Rows {
	created := time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).
		AddRow("test-1", "1", "PetShop Central", "Tienda", "user-001", "Juan Pérez",
			time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC), "10:00:00", 60, "confirmed", nil, created, created).
		AddRow("test-2", "1", "PetShop Central", "Tienda", "user-002", "María García",
			time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC), "14:00:00", 60, "confirmed", nil, created, created)
}

func TestList_ProviderDate(t *testing.T) {
	repo, _, mock := newRepository(t)
	providerID, date := "1", "2025-10-30"

	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE provider_id = \$1 AND appointment_date = \$2 AND status NOT IN \(\$3\) ORDER BY start_time ASC$`).
		WithArgs("1", "2025-10-30", "cancelled").
		WillReturnRows(appointmentRows())

	result, err := repo.List(context.Background(), domain.AppointmentFilter{ProviderID: &providerID, Date: &date})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "test-1", result[0].ID)
	assert.Equal(t, "2025-10-30", result[0].Date)
	assert.Equal(t, types.TimeString("10:00"), result[0].Time)
	assert.Equal(t, domain.StatusConfirmed, result[0].Status)
	assert.Nil(t, result[0].CancelledAt)
	assert.Equal(t, types.TimeString("14:00"), result[1].Time)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_UserHistoryIncludingCancelled(t *testing.T) {
	repo, _, mock := newRepository(t)
	userID := "user-001"

	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE user_id = \$1 ORDER BY appointment_date DESC, start_time DESC$`).
		WithArgs("user-001").
		WillReturnRows(sqlmock.NewRows(columns))

	result, err := repo.List(context.Background(), domain.AppointmentFilter{UserID: &userID, IncludeCancelled: true})

	require.NoError(t, err)
	assert.Empty(t, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_LocksRowsInTransaction(t *testing.T) {
	repo, db, mock := newRepository(t)
	providerID, date := "1", "2025-10-30"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE .+ FOR UPDATE$`).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	_, err = repo.List(ctx, domain.AppointmentFilter{ProviderID: &providerID, Date: &date})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM appointments`).WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background(), domain.AppointmentFilter{})

	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestGetByID(t *testing.T) {
	repo, _, mock := newRepository(t)
	cancelled := time.Date(2025, 10, 29, 15, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE id = \$1$`).
		WithArgs("test-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"test-1", "1", "PetShop Central", "Tienda", "user-001", "Juan Pérez",
			time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC), "10:00:00", 60, "cancelled", cancelled, cancelled, cancelled))

	appointment, err := repo.GetByID(context.Background(), "test-1")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, appointment.Status)
	require.NotNil(t, appointment.CancelledAt)
	assert.Equal(t, cancelled, *appointment.CancelledAt)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE id = \$1$`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel(t *testing.T) {
	repo, _, mock := newRepository(t)
	at := time.Date(2025, 10, 29, 15, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE appointments SET status = \$1, cancelled_at = COALESCE\(cancelled_at, \$2\), updated_at = \$3 WHERE id = \$4 AND status <> \$5`).
		WithArgs("cancelled", at, at, "test-1", "completed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), "test-1", at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_NotFound(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectExec(`UPDATE appointments SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Cancel(context.Background(), "missing", time.Now())

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo, _, mock := newRepository(t)
	at := time.Date(2025, 10, 30, 11, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE appointments SET status = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("completed", at, "test-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "test-1", domain.StatusCompleted, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	repo, _, _ := newRepository(t)

	err := repo.UpdateStatus(context.Background(), "test-1", "archived", time.Now())

	assert.ErrorIs(t, err, ErrInvalidStatus)
}
