package assignment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

const table = "shift_assignments"

// Repository репозиторий назначений сотрудников на смены
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория назначений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает назначение.
// Повторное назначение того же сотрудника на ту же смену возвращает ErrDuplicateAssignment.
func (r *Repository) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("staff_id", "shift_id").
		Values(a.StaffID, a.ShiftID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateAssignment
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time

	return a, nil
}

// GetByID получает назначение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "staff_id", "shift_id", "created_at").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var a domain.Assignment
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.StaffID, &a.ShiftID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan assignment: %v", ErrScanRow, err)
	}

	a.CreatedAt = createdAt.Time

	return &a, nil
}

// Delete удаляет назначение
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
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

// CountByShift считает все назначения на смену (независимо от роли)
func (r *Repository) CountByShift(ctx context.Context, shiftID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"shift_id": shiftID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByShift - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByShift - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountTechniciansByShift считает назначения техников на смену.
// Сотрудники с другими ролями в ёмкость слотов не входят.
func (r *Repository) CountTechniciansByShift(ctx context.Context, shiftID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table + " sa").
		Join("staff s ON s.id = sa.staff_id").
		Where(squirrel.Eq{"sa.shift_id": shiftID}).
		Where(squirrel.Eq{"s.role": domain.RoleTechnician}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountTechniciansByShift - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountTechniciansByShift - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountTechniciansByShifts считает назначения техников для набора смен одним запросом.
// Смены без техников в результат не попадают (значение 0 по умолчанию).
func (r *Repository) CountTechniciansByShifts(ctx context.Context, shiftIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(shiftIDs))
	if len(shiftIDs) == 0 {
		return counts, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("sa.shift_id", "COUNT(*)").
		From(table + " sa").
		Join("staff s ON s.id = sa.staff_id").
		Where("sa.shift_id = ANY(?)", pq.Array(shiftIDs)).
		Where(squirrel.Eq{"s.role": domain.RoleTechnician}).
		GroupBy("sa.shift_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountTechniciansByShifts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountTechniciansByShifts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var shiftID int64
		var count int
		if err := rows.Scan(&shiftID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountTechniciansByShifts - scan row: %v", ErrScanRow, err)
		}
		counts[shiftID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountTechniciansByShifts - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}
