package slot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

const (
	table = "slots"

	// insertChunkSize ограничивает количество строк в одном INSERT (лимит параметров PostgreSQL - 65535)
	insertChunkSize = 1000
)

var columns = []string{
	"id",
	"center_id",
	"slot_date",
	"start_time",
	"end_time",
	"capacity",
	"booked_count",
	"status",
	"shift_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch создает слоты пачками.
// Слоты с уже существующим ключом (center_id, slot_date, start_time, shift_id) пропускаются,
// в результат попадают только реально вставленные строки.
func (r *Repository) CreateBatch(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
	created := make([]*domain.Slot, 0, len(slots))

	for from := 0; from < len(slots); from += insertChunkSize {
		to := min(from+insertChunkSize, len(slots))

		chunk, err := r.insertChunk(ctx, slots[from:to])
		if err != nil {
			return nil, err
		}
		created = append(created, chunk...)
	}

	return created, nil
}

func (r *Repository) insertChunk(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(table).
		Columns("center_id", "slot_date", "start_time", "end_time", "capacity", "booked_count", "status", "shift_id")

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(
			s.CenterID,
			s.SlotDate.Format(domain.DateFormat),
			s.StartTime,
			s.EndTime,
			s.Capacity,
			s.BookedCount,
			s.Status,
			s.ShiftID,
		)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (center_id, slot_date, start_time, shift_id) DO NOTHING RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// GetByFilter получает слоты с фильтрацией.
// Конкретная дата имеет приоритет над диапазоном dateFrom/dateTo.
func (r *Repository) GetByFilter(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("slot_date ASC", "start_time ASC", "center_id ASC", "shift_id ASC")

	if len(filter.CenterIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"center_id": filter.CenterIDs})
	}
	if filter.ShiftID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"shift_id": *filter.ShiftID})
	}

	switch {
	case filter.Date != nil:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": filter.Date.Format(domain.DateFormat)})
	default:
		if filter.DateFrom != nil {
			selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": filter.DateFrom.Format(domain.DateFormat)})
		}
		if filter.DateTo != nil {
			selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": filter.DateTo.Format(domain.DateFormat)})
		}
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

	return r.scanSlots(rows)
}

// GetByShiftID получает все слоты смены.
// Внутри транзакции строки блокируются (FOR UPDATE) до её завершения.
func (r *Repository) GetByShiftID(ctx context.Context, shiftID int64) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"shift_id": shiftID}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByShiftID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByShiftID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// GetByID получает слот по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots, err := r.scanSlots(rows)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, ErrSlotNotFound
	}

	return slots[0], nil
}

// UpdateBooking сохраняет число бронирований слота и пересчитанный статус
func (r *Repository) UpdateBooking(ctx context.Context, id int64, bookedCount int, status domain.SlotStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("booked_count", bookedCount).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateBooking - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "UpdateBooking", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// UpdateCapacity выставляет ёмкость всем слотам смены.
// Возвращает количество обновлённых слотов.
func (r *Repository) UpdateCapacity(ctx context.Context, shiftID int64, capacity int) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("capacity", capacity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"shift_id": shiftID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: UpdateCapacity - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "UpdateCapacity", query, args)
}

// UpdateStatuses выставляет статус слотам из списка ids
func (r *Repository) UpdateStatuses(ctx context.Context, status domain.SlotStatus, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: UpdateStatuses - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "UpdateStatuses", query, args)
}

// CountByShift считает слоты, порождённые сменой
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

// ExpirePast переводит в expired слоты, закончившиеся к моменту (today, now):
// слоты прошедших дней и сегодняшние слоты с end_time <= now.
func (r *Repository) ExpirePast(ctx context.Context, today time.Time, now types.TimeString) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	day := today.Format(domain.DateFormat)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.SlotStatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.NotEq{"status": domain.SlotStatusExpired}).
		Where(squirrel.Or{
			squirrel.Lt{"slot_date": day},
			squirrel.And{
				squirrel.Eq{"slot_date": day},
				squirrel.LtOrEq{"end_time": now},
			},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpirePast - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "ExpirePast", query, args)
}

func (r *Repository) exec(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) (int64, error) {
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

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var slot domain.Slot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.CenterID,
			&slot.SlotDate,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Capacity,
			&slot.BookedCount,
			&slot.Status,
			&slot.ShiftID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func returning() string {
	return strings.Join(columns, ", ")
}
