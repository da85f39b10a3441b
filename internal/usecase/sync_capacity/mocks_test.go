package sync_capacity

import (
	"context"
	"slices"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type MockAssignmentRepository struct {
	CountTechniciansByShiftFunc func(ctx context.Context, shiftID int64) (int, error)
}

func (m *MockAssignmentRepository) CountTechniciansByShift(ctx context.Context, shiftID int64) (int, error) {
	return m.CountTechniciansByShiftFunc(ctx, shiftID)
}

type MockTxManager struct {
	Calls int
}

func (m *MockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

type MockMetrics struct {
	Results []string
}

func (m *MockMetrics) CapacitySynced(result string) {
	m.Results = append(m.Results, result)
}

// memSlots слоты в памяти с журналом групповых обновлений статуса
type memSlots struct {
	slots         []*domain.Slot
	statusUpdates map[domain.SlotStatus][]int64
	failOn        string
	calls         []string
}

func (s *memSlots) GetByShiftID(_ context.Context, shiftID int64) ([]*domain.Slot, error) {
	s.calls = append(s.calls, "GetByShiftID")
	result := make([]*domain.Slot, 0)
	for _, sl := range s.slots {
		if sl.ShiftID == shiftID {
			copied := *sl
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memSlots) UpdateCapacity(_ context.Context, shiftID int64, capacity int) (int64, error) {
	if s.failOn == "UpdateCapacity" {
		return 0, errStore
	}
	var n int64
	for _, sl := range s.slots {
		if sl.ShiftID == shiftID {
			sl.Capacity = capacity
			n++
		}
	}
	return n, nil
}

func (s *memSlots) UpdateStatuses(_ context.Context, status domain.SlotStatus, ids []int64) (int64, error) {
	if s.statusUpdates == nil {
		s.statusUpdates = make(map[domain.SlotStatus][]int64)
	}
	s.statusUpdates[status] = append(s.statusUpdates[status], ids...)

	var n int64
	for _, sl := range s.slots {
		if slices.Contains(ids, sl.ID) {
			sl.Status = status
			n++
		}
	}
	return n, nil
}
