package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type MockShiftRepository struct {
	GetActiveByCenterAndDateFunc func(ctx context.Context, centerID int64, date time.Time) ([]*domain.Shift, error)
}

func (m *MockShiftRepository) GetActiveByCenterAndDate(ctx context.Context, centerID int64, date time.Time) ([]*domain.Shift, error) {
	return m.GetActiveByCenterAndDateFunc(ctx, centerID, date)
}

type MockAssignmentRepository struct {
	CountTechniciansByShiftsFunc func(ctx context.Context, shiftIDs []int64) (map[int64]int, error)
}

func (m *MockAssignmentRepository) CountTechniciansByShifts(ctx context.Context, shiftIDs []int64) (map[int64]int, error) {
	return m.CountTechniciansByShiftsFunc(ctx, shiftIDs)
}

type MockSlotRepository struct {
	GetByFilterFunc func(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error)
	CreateBatchFunc func(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error)
}

func (m *MockSlotRepository) GetByFilter(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	if m.GetByFilterFunc != nil {
		return m.GetByFilterFunc(ctx, filter)
	}
	return []*domain.Slot{}, nil
}

func (m *MockSlotRepository) CreateBatch(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
	return m.CreateBatchFunc(ctx, slots)
}

type MockMetrics struct {
	Created  int
	Skipped  int
	Warnings map[string]int
}

func (m *MockMetrics) SlotsGenerated(created, skipped int) {
	m.Created += created
	m.Skipped += skipped
}

func (m *MockMetrics) GenerationWarning(reason string) {
	if m.Warnings == nil {
		m.Warnings = make(map[string]int)
	}
	m.Warnings[reason]++
}

// memStore хранилище в памяти: смены, счётчики техников и слоты с уникальным ключом
type memStore struct {
	shifts      []*domain.Shift
	technicians map[int64]int
	slots       []*domain.Slot
	nextID      int64
}

func (s *memStore) GetActiveByCenterAndDate(_ context.Context, centerID int64, date time.Time) ([]*domain.Shift, error) {
	result := make([]*domain.Shift, 0)
	for _, sh := range s.shifts {
		if sh.CenterID == centerID && sh.ShiftDate.Equal(domain.CalendarDay(date)) && sh.IsActive() {
			result = append(result, sh)
		}
	}
	return result, nil
}

func (s *memStore) CountTechniciansByShifts(_ context.Context, shiftIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	for _, id := range shiftIDs {
		if n := s.technicians[id]; n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (s *memStore) GetByFilter(_ context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	result := make([]*domain.Slot, 0)
	for _, sl := range s.slots {
		if filter.DateFrom != nil && sl.SlotDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && sl.SlotDate.After(*filter.DateTo) {
			continue
		}
		result = append(result, sl)
	}
	return result, nil
}

func (s *memStore) CreateBatch(_ context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
	existing := make(map[domain.SlotKey]struct{}, len(s.slots))
	for _, sl := range s.slots {
		existing[sl.Key()] = struct{}{}
	}

	created := make([]*domain.Slot, 0, len(slots))
	for _, sl := range slots {
		if _, ok := existing[sl.Key()]; ok {
			continue
		}
		s.nextID++
		stored := *sl
		stored.ID = s.nextID
		s.slots = append(s.slots, &stored)
		existing[stored.Key()] = struct{}{}
		created = append(created, &stored)
	}
	return created, nil
}
