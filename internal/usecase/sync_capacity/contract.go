package sync_capacity

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// AssignmentRepository интерфейс репозитория назначений
type AssignmentRepository interface {
	CountTechniciansByShift(ctx context.Context, shiftID int64) (int, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByShiftID(ctx context.Context, shiftID int64) ([]*domain.Slot, error)
	UpdateCapacity(ctx context.Context, shiftID int64, capacity int) (int64, error)
	UpdateStatuses(ctx context.Context, status domain.SlotStatus, ids []int64) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для записи метрик синхронизации
type Metrics interface {
	CapacitySynced(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
