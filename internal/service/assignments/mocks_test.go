package assignments

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/events"
)

type MockAssignmentRepository struct {
	CreateFunc  func(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Assignment, error)
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	return m.CreateFunc(ctx, a)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

type MockShiftRepository struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Shift, error)
}

func (m *MockShiftRepository) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	return m.GetByIDFunc(ctx, id)
}

type MockStaffRepository struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Staff, error)
}

func (m *MockStaffRepository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	return m.GetByIDFunc(ctx, id)
}

type MockPublisher struct {
	mu     sync.Mutex
	Events []events.AssignmentChanged
}

func (m *MockPublisher) Publish(event events.AssignmentChanged) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// MockTxManager выполняет fn и запоминает, завершилась ли транзакция откатом
type MockTxManager struct {
	Committed  int
	RolledBack int
}

func (m *MockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.RolledBack++
		return err
	}
	m.Committed++
	return nil
}
