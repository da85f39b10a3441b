package bookings

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
)

// memSlots хранилище слотов в памяти; мьютекс играет роль блокировки строки
type memSlots struct {
	mu    sync.Mutex
	slots map[int64]domain.Slot
}

func newMemSlots(slots ...domain.Slot) *memSlots {
	m := &memSlots{slots: make(map[int64]domain.Slot)}
	for _, s := range slots {
		m.slots[s.ID] = s
	}
	return m
}

func (m *memSlots) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return &s, nil
}

func (m *memSlots) UpdateBooking(ctx context.Context, id int64, bookedCount int, status domain.SlotStatus) error {
	s, ok := m.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	s.BookedCount = bookedCount
	s.Status = status
	m.slots[id] = s
	return nil
}

// lockingTxManager сериализует транзакции как блокировка строки в БД
type lockingTxManager struct {
	store *memSlots
}

func (t *lockingTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(ctx)
}

type MockSlotRepository struct {
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.Slot, error)
	UpdateBookingFunc func(ctx context.Context, id int64, bookedCount int, status domain.SlotStatus) error
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockSlotRepository) UpdateBooking(ctx context.Context, id int64, bookedCount int, status domain.SlotStatus) error {
	return m.UpdateBookingFunc(ctx, id, bookedCount, status)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
