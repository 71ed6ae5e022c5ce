package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/peti-app/appointment-service/internal/domain"
	"github.com/peti-app/appointment-service/pkg/dbmetrics"
	"github.com/peti-app/appointment-service/pkg/psqlbuilder"
)

const (
	tableName = "appointments"

	// pqUniqueViolation код ошибки Postgres при нарушении уникального индекса
	pqUniqueViolation = "23505"
)

// slotConflictTarget совпадает с частичным уникальным индексом из миграции
const slotConflictTarget = "ON CONFLICT (provider_id, appointment_date, start_time) WHERE status <> 'cancelled' DO NOTHING"

var columns = []string{
	"id",
	"provider_id",
	"provider_name",
	"provider_category",
	"user_id",
	"user_name",
	"appointment_date",
	"start_time",
	"duration_minutes",
	"status",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей в Postgres
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertIfSlotFree атомарно создаёт запись, если слот (провайдер, дата, время) свободен
// Единственный источник истины для конфликтов: частичный уникальный индекс по активным записям.
// Если вставка ничего не вернула или сработал индекс - ErrSlotOccupied
func (r *Repository) InsertIfSlotFree(ctx context.Context, appointment *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"id",
			"provider_id",
			"provider_name",
			"provider_category",
			"user_id",
			"user_name",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			appointment.ID,
			appointment.ProviderID,
			appointment.ProviderName,
			appointment.ProviderCategory,
			appointment.UserID,
			appointment.UserName,
			appointment.Date,
			appointment.Time,
			appointment.DurationMinutes,
			appointment.Status,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		).
		Suffix(slotConflictTarget + " RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: InsertIfSlotFree - build insert query: %v", ErrBuildQuery, err)
	}

	var id string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: provider=%s, date=%s, time=%s",
			ErrSlotOccupied, appointment.ProviderID, appointment.Date, appointment.Time)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: InsertIfSlotFree - unique violation: %v", ErrSlotOccupied, err)
	}
	if err != nil {
		// Исходная ошибка нужна txmanager для повтора при serialization failure
		return fmt.Errorf("%w: InsertIfSlotFree - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appointment, nil
}

// List получает записи по фильтру
// Для конкретной даты сортирует по времени (ASC), иначе сначала новые.
// Выборка провайдера на дату внутри транзакции блокирует строки (FOR UPDATE)
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(tableName)

	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_date": *filter.Date})
	}

	if !filter.IncludeCancelled {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC", "start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.ProviderID != nil && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Cancel переводит запись в cancelled
// cancelled_at выставляется только при первой отмене, завершённые записи не трогаются
func (r *Repository) Cancel(ctx context.Context, id string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", squirrel.Expr("COALESCE(cancelled_at, ?)", cancelledAt)).
		Set("updated_at", cancelledAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.StatusCompleted}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus, updatedAt time.Time) error {
	if _, ok := domain.ParseStatus(string(status)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var date time.Time
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.ProviderID,
		&appointment.ProviderName,
		&appointment.ProviderCategory,
		&appointment.UserID,
		&appointment.UserName,
		&date,
		&appointment.Time,
		&appointment.DurationMinutes,
		&appointment.Status,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appointment.Date = date.Format(domain.DateFormat)
	if cancelledAt.Valid {
		t := cancelledAt.Time
		appointment.CancelledAt = &t
	}
	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return &appointment, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
