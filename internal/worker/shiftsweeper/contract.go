package shiftsweeper

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetActive(ctx context.Context) ([]*domain.Shift, error)
	CompleteBatch(ctx context.Context, ids []int64) (int64, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ExpirePast(ctx context.Context, today time.Time, now types.TimeString) (int64, error)
}

// Metrics интерфейс метрик фонового завершения смен
type Metrics interface {
	ShiftsCompleted(n int)
	SlotsExpired(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
