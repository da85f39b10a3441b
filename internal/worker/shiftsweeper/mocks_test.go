package shiftsweeper

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type MockShiftRepository struct {
	GetActiveFunc     func(ctx context.Context) ([]*domain.Shift, error)
	CompleteBatchFunc func(ctx context.Context, ids []int64) (int64, error)
}

func (m *MockShiftRepository) GetActive(ctx context.Context) ([]*domain.Shift, error) {
	return m.GetActiveFunc(ctx)
}

func (m *MockShiftRepository) CompleteBatch(ctx context.Context, ids []int64) (int64, error) {
	return m.CompleteBatchFunc(ctx, ids)
}

type MockSlotRepository struct {
	ExpirePastFunc func(ctx context.Context, today time.Time, now types.TimeString) (int64, error)
}

func (m *MockSlotRepository) ExpirePast(ctx context.Context, today time.Time, now types.TimeString) (int64, error) {
	return m.ExpirePastFunc(ctx, today, now)
}

type MockMetrics struct {
	mu        sync.Mutex
	Completed int
	Expired   int
}

func (m *MockMetrics) ShiftsCompleted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completed += n
}

func (m *MockMetrics) SlotsExpired(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Expired += n
}
