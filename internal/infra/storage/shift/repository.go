package shift

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

const table = "shifts"

var columns = []string{
	"id",
	"center_id",
	"shift_date",
	"start_time",
	"end_time",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со сменами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория смен
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch создает смены одним запросом.
// Смены, совпадающие по (center_id, shift_date, start_time, end_time) с уже существующими,
// пропускаются (ON CONFLICT DO NOTHING) - возвращаются только реально созданные.
func (r *Repository) CreateBatch(ctx context.Context, shifts []*domain.Shift) ([]*domain.Shift, error) {
	if len(shifts) == 0 {
		return []*domain.Shift{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(table).
		Columns("center_id", "shift_date", "start_time", "end_time", "status")

	for _, s := range shifts {
		insertBuilder = insertBuilder.Values(s.CenterID, s.ShiftDate.Format(domain.DateFormat), s.StartTime, s.EndTime, s.Status)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (center_id, shift_date, start_time, end_time) DO NOTHING RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanShifts(rows)
}

// GetByID получает смену по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var shift domain.Shift
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shift.ID,
		&shift.CenterID,
		&shift.ShiftDate,
		&shift.StartTime,
		&shift.EndTime,
		&shift.Status,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan shift: %v", ErrScanRow, err)
	}

	shift.CreatedAt = createdAt.Time
	shift.UpdatedAt = updatedAt.Time

	return &shift, nil
}

// GetActiveByCenterAndDate получает активные смены центра на дату
func (r *Repository) GetActiveByCenterAndDate(ctx context.Context, centerID int64, date time.Time) ([]*domain.Shift, error) {
	status := domain.ShiftStatusActive
	return r.GetByFilter(ctx, domain.ShiftsFilter{
		CenterID: &centerID,
		Date:     &date,
		Status:   &status,
	})
}

// GetActive получает все активные смены (для фонового завершения)
func (r *Repository) GetActive(ctx context.Context) ([]*domain.Shift, error) {
	status := domain.ShiftStatusActive
	return r.GetByFilter(ctx, domain.ShiftsFilter{Status: &status})
}

// GetByFilter получает смены с фильтрацией по центру, дате и статусу
func (r *Repository) GetByFilter(ctx context.Context, filter domain.ShiftsFilter) ([]*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("shift_date ASC", "start_time ASC", "id ASC")

	if filter.CenterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"center_id": *filter.CenterID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"shift_date": filter.Date.Format(domain.DateFormat)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanShifts(rows)
}

// CompleteBatch переводит активные смены из списка ids в статус completed.
// Смены, уже покинувшие статус active, не затрагиваются.
// Возвращает количество обновлённых смен.
func (r *Repository) CompleteBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	return r.transition(ctx, "CompleteBatch", ids, domain.ShiftStatusCompleted)
}

// Cancel переводит активную смену в статус cancelled
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	affected, err := r.transition(ctx, "Cancel", []int64{id}, domain.ShiftStatusCancelled)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrShiftNotActive
	}
	return nil
}

func (r *Repository) transition(ctx context.Context, op string, ids []int64, to domain.ShiftStatus) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"status": domain.ShiftStatusActive}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return affected, nil
}

// Delete удаляет смену.
// Внешние ключи назначений и слотов (ON DELETE RESTRICT) защищают от удаления используемой смены.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return ErrShiftInUse
		}
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// scanShifts сканирует результаты запроса в слайс смен
func (r *Repository) scanShifts(rows *sql.Rows) ([]*domain.Shift, error) {
	shifts := make([]*domain.Shift, 0)

	for rows.Next() {
		var shift domain.Shift
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&shift.ID,
			&shift.CenterID,
			&shift.ShiftDate,
			&shift.StartTime,
			&shift.EndTime,
			&shift.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanShifts - scan row: %v", ErrScanRow, err)
		}

		shift.CreatedAt = createdAt.Time
		shift.UpdatedAt = updatedAt.Time

		shifts = append(shifts, &shift)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanShifts - rows error: %v", ErrScanRow, err)
	}

	return shifts, nil
}

func returning() string {
	return strings.Join(columns, ", ")
}
