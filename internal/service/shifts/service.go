package shifts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	shiftRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/shift"
	"github.com/m04kA/SMC-ScheduleService/internal/service/shifts/models"
)

// Service сервис управления сменами центров
type Service struct {
	shiftRepo      ShiftRepository
	assignmentRepo AssignmentRepository
	slotRepo       SlotRepository
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса смен
func NewService(
	shiftRepo ShiftRepository,
	assignmentRepo AssignmentRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		slotRepo:       slotRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// BulkCreate создает смены центра на каждую из дат с одинаковым окном.
// Смены, уже существующие с тем же окном, пропускаются.
func (s *Service) BulkCreate(ctx context.Context, req *models.BulkCreateRequest) (*models.BulkCreateResponse, error) {
	s.logger.Info("BulkCreate: center=%d, dates=%d, window=%s-%s",
		req.CenterID, len(req.Dates), req.StartTime, req.EndTime)

	// 1. Валидация
	dates, err := validateBulkCreate(req)
	if err != nil {
		s.logger.Warn("BulkCreate: validation failed: %v", err)
		return nil, err
	}

	// 2. Формируем смены
	shifts := make([]*domain.Shift, 0, len(dates))
	for _, date := range dates {
		shifts = append(shifts, &domain.Shift{
			CenterID:  req.CenterID,
			ShiftDate: date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    domain.ShiftStatusActive,
		})
	}

	// 3. Сохраняем одной пачкой
	created, err := s.shiftRepo.CreateBatch(ctx, shifts)
	if err != nil {
		s.logger.Error("BulkCreate: repository error for center=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: BulkCreate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("BulkCreate: created %d shifts for center=%d, skipped %d",
		len(created), req.CenterID, len(shifts)-len(created))

	return &models.BulkCreateResponse{
		Created: models.FromDomainShiftList(created),
		Skipped: len(shifts) - len(created),
	}, nil
}

// List получает смены центра с фильтрацией по дате и статусу
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ShiftListResponse, error) {
	if req.CenterID <= 0 {
		return nil, fmt.Errorf("%w: centerId must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for center=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	shifts, err := s.shiftRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for center=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d shifts for center=%d", len(shifts), req.CenterID)
	return &models.ShiftListResponse{Shifts: models.FromDomainShiftList(shifts)}, nil
}

// Cancel переводит активную смену в статус cancelled.
// Слоты смены не затрагиваются.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	s.logger.Info("Cancel: cancelling shift id=%d", id)

	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("Cancel: shift id=%d not found", id)
			return ErrShiftNotFound
		}
		s.logger.Error("Cancel: repository error for shift id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !shift.IsActive() {
		s.logger.Warn("Cancel: shift id=%d is %s", id, shift.Status)
		return ErrShiftNotActive
	}

	if err := s.shiftRepo.Cancel(ctx, id); err != nil {
		// Смена могла быть завершена фоновой задачей между чтением и обновлением
		if errors.Is(err, shiftRepo.ErrShiftNotActive) {
			s.logger.Warn("Cancel: shift id=%d left active state concurrently", id)
			return ErrShiftNotActive
		}
		s.logger.Error("Cancel: repository error for shift id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled shift id=%d", id)
	return nil
}

// Delete удаляет смену, если на неё не ссылаются ни назначения, ни слоты
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting shift id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Проверяем существование смены
		if _, err := s.shiftRepo.GetByID(txCtx, id); err != nil {
			if errors.Is(err, shiftRepo.ErrShiftNotFound) {
				return ErrShiftNotFound
			}
			return fmt.Errorf("%w: Delete - get shift: %v", ErrInternal, err)
		}

		// 2. Проверяем ссылки
		assignments, err := s.assignmentRepo.CountByShift(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count assignments: %v", ErrInternal, err)
		}

		slots, err := s.slotRepo.CountByShift(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count slots: %v", ErrInternal, err)
		}

		if assignments > 0 || slots > 0 {
			s.logger.Warn("Delete: shift id=%d is referenced by %d assignments and %d slots", id, assignments, slots)
			return ErrShiftInUse
		}

		// 3. Удаляем (внешние ключи страхуют от гонки с новыми назначениями)
		if err := s.shiftRepo.Delete(txCtx, id); err != nil {
			switch {
			case errors.Is(err, shiftRepo.ErrShiftInUse):
				return ErrShiftInUse
			case errors.Is(err, shiftRepo.ErrShiftNotFound):
				return ErrShiftNotFound
			default:
				return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Delete: failed to delete shift id=%d: %v", id, err)
		} else {
			s.logger.Warn("Delete: shift id=%d not deleted: %v", id, err)
		}
		return err
	}

	s.logger.Info("Delete: successfully deleted shift id=%d", id)
	return nil
}

// validateBulkCreate проверяет запрос и возвращает даты без повторов
func validateBulkCreate(req *models.BulkCreateRequest) ([]time.Time, error) {
	if req.CenterID <= 0 {
		return nil, fmt.Errorf("%w: centerId must be positive", ErrInvalidInput)
	}

	if len(req.Dates) == 0 {
		return nil, fmt.Errorf("%w: dates must not be empty", ErrInvalidInput)
	}

	if len(req.Dates) > domain.MaxShiftDatesPerRequest {
		return nil, fmt.Errorf("%w: at most %d dates per request", ErrInvalidInput, domain.MaxShiftDatesPerRequest)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return nil, fmt.Errorf("%w: endTime %s must be after startTime %s", ErrInvalidInput, req.EndTime, req.StartTime)
	}

	dates := make([]time.Time, 0, len(req.Dates))
	seen := make(map[time.Time]struct{}, len(req.Dates))
	for _, d := range req.Dates {
		if d.IsZero() {
			return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
		}
		day := domain.CalendarDay(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}

	return dates, nil
}
