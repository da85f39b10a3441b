package shifts

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type MockShiftRepository struct {
	CreateBatchFunc func(ctx context.Context, shifts []*domain.Shift) ([]*domain.Shift, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*domain.Shift, error)
	GetByFilterFunc func(ctx context.Context, filter domain.ShiftsFilter) ([]*domain.Shift, error)
	CancelFunc      func(ctx context.Context, id int64) error
	DeleteFunc      func(ctx context.Context, id int64) error
}

func (m *MockShiftRepository) CreateBatch(ctx context.Context, shifts []*domain.Shift) ([]*domain.Shift, error) {
	return m.CreateBatchFunc(ctx, shifts)
}

func (m *MockShiftRepository) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockShiftRepository) GetByFilter(ctx context.Context, filter domain.ShiftsFilter) ([]*domain.Shift, error) {
	return m.GetByFilterFunc(ctx, filter)
}

func (m *MockShiftRepository) Cancel(ctx context.Context, id int64) error {
	return m.CancelFunc(ctx, id)
}

func (m *MockShiftRepository) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

type MockCounter struct {
	CountByShiftFunc func(ctx context.Context, shiftID int64) (int, error)
}

func (m *MockCounter) CountByShift(ctx context.Context, shiftID int64) (int, error) {
	return m.CountByShiftFunc(ctx, shiftID)
}

func count(n int) *MockCounter {
	return &MockCounter{
		CountByShiftFunc: func(ctx context.Context, shiftID int64) (int, error) {
			return n, nil
		},
	}
}

type MockTxManager struct{}

func (m *MockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
