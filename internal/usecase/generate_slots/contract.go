package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetActiveByCenterAndDate(ctx context.Context, centerID int64, date time.Time) ([]*domain.Shift, error)
}

// AssignmentRepository интерфейс репозитория назначений
type AssignmentRepository interface {
	CountTechniciansByShifts(ctx context.Context, shiftIDs []int64) (map[int64]int, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByFilter(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error)
	CreateBatch(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error)
}

// Metrics интерфейс для записи метрик генерации
type Metrics interface {
	SlotsGenerated(created, skipped int)
	GenerationWarning(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
