package shifts

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	CreateBatch(ctx context.Context, shifts []*domain.Shift) ([]*domain.Shift, error)
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
	GetByFilter(ctx context.Context, filter domain.ShiftsFilter) ([]*domain.Shift, error)
	Cancel(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// AssignmentRepository интерфейс репозитория назначений
type AssignmentRepository interface {
	CountByShift(ctx context.Context, shiftID int64) (int, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	CountByShift(ctx context.Context, shiftID int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
