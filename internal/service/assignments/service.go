package assignments

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/events"
	assignmentRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/assignment"
	shiftRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/shift"
	staffRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-ScheduleService/internal/service/assignments/models"
)

// Service сервис назначений сотрудников на смены.
// Каждое созданное или удалённое назначение публикует событие AssignmentChanged
// после фиксации транзакции.
type Service struct {
	assignmentRepo AssignmentRepository
	shiftRepo      ShiftRepository
	staffRepo      StaffRepository
	publisher      EventPublisher
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса назначений
func NewService(
	assignmentRepo AssignmentRepository,
	shiftRepo ShiftRepository,
	staffRepo StaffRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		assignmentRepo: assignmentRepo,
		shiftRepo:      shiftRepo,
		staffRepo:      staffRepo,
		publisher:      publisher,
		txManager:      txManager,
		logger:         logger,
	}
}

// BulkAssign назначает сотрудника на список смен.
// Выполняется целиком в одной транзакции: первая ошибка откатывает все назначения запроса.
func (s *Service) BulkAssign(ctx context.Context, req *models.BulkAssignRequest) (*models.BulkAssignResponse, error) {
	s.logger.Info("BulkAssign: staff=%d, shifts=%v", req.StaffID, req.ShiftIDs)

	// 1. Валидация
	shiftIDs, err := validateBulkAssign(req)
	if err != nil {
		s.logger.Warn("BulkAssign: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем сотрудника
	staff, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("BulkAssign: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("BulkAssign: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: BulkAssign - get staff: %v", ErrInternal, err)
	}

	created := make([]*domain.Assignment, 0, len(shiftIDs))

	// 3. Проверяем и создаём назначения по одному, останавливаясь на первой ошибке
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, shiftID := range shiftIDs {
			assignment, err := s.assignOne(txCtx, staff, shiftID)
			if err != nil {
				return err
			}
			created = append(created, assignment)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("BulkAssign: staff=%d rolled back: %v", req.StaffID, err)
		} else {
			s.logger.Warn("BulkAssign: staff=%d rolled back: %v", req.StaffID, err)
		}
		return nil, err
	}

	// 4. После фиксации публикуем события для пересчёта ёмкости
	response := &models.BulkAssignResponse{Assignments: make([]models.AssignmentResponse, 0, len(created))}
	for _, a := range created {
		s.publisher.Publish(events.AssignmentChanged{ShiftID: a.ShiftID})
		response.Assignments = append(response.Assignments, models.FromDomainAssignment(a))
	}

	s.logger.Info("BulkAssign: staff=%d assigned to %d shifts", req.StaffID, len(created))
	return response, nil
}

// assignOne проверяет смену и создаёт одно назначение
func (s *Service) assignOne(ctx context.Context, staff *domain.Staff, shiftID int64) (*domain.Assignment, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			return nil, fmt.Errorf("%w: shift id=%d", ErrShiftNotFound, shiftID)
		}
		return nil, fmt.Errorf("%w: BulkAssign - get shift id=%d: %v", ErrInternal, shiftID, err)
	}

	if shift.CenterID != staff.CenterID {
		return nil, fmt.Errorf("%w: shift id=%d is in center %d, staff id=%d is in center %d",
			ErrCenterMismatch, shiftID, shift.CenterID, staff.ID, staff.CenterID)
	}

	if !shift.IsActive() {
		return nil, fmt.Errorf("%w: shift id=%d is %s", ErrShiftNotActive, shiftID, shift.Status)
	}

	assignment, err := s.assignmentRepo.Create(ctx, &domain.Assignment{StaffID: staff.ID, ShiftID: shiftID})
	if err != nil {
		if errors.Is(err, assignmentRepo.ErrDuplicateAssignment) {
			return nil, fmt.Errorf("%w: staff id=%d, shift id=%d", ErrDuplicateAssignment, staff.ID, shiftID)
		}
		return nil, fmt.Errorf("%w: BulkAssign - create assignment: %v", ErrInternal, err)
	}

	return assignment, nil
}

// Delete удаляет назначение и публикует событие для пересчёта ёмкости смены
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting assignment id=%d", id)

	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, assignmentRepo.ErrAssignmentNotFound) {
			s.logger.Warn("Delete: assignment id=%d not found", id)
			return ErrAssignmentNotFound
		}
		s.logger.Error("Delete: repository error for assignment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - get assignment: %v", ErrInternal, err)
	}

	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, assignmentRepo.ErrAssignmentNotFound) {
			s.logger.Warn("Delete: assignment id=%d deleted concurrently", id)
			return ErrAssignmentNotFound
		}
		s.logger.Error("Delete: repository error for assignment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.publisher.Publish(events.AssignmentChanged{ShiftID: assignment.ShiftID})

	s.logger.Info("Delete: successfully deleted assignment id=%d (shift=%d)", id, assignment.ShiftID)
	return nil
}

// validateBulkAssign проверяет запрос и возвращает ID смен без повторов в исходном порядке
func validateBulkAssign(req *models.BulkAssignRequest) ([]int64, error) {
	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if len(req.ShiftIDs) == 0 {
		return nil, fmt.Errorf("%w: shiftIds must not be empty", ErrInvalidInput)
	}

	shiftIDs := make([]int64, 0, len(req.ShiftIDs))
	for _, id := range req.ShiftIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: shiftId must be positive, got %d", ErrInvalidInput, id)
		}
		if !slices.Contains(shiftIDs, id) {
			shiftIDs = append(shiftIDs, id)
		}
	}

	return shiftIDs, nil
}
