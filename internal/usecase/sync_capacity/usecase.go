package sync_capacity

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
)

// statusOrder порядок применения групповых обновлений статуса
var statusOrder = []domain.SlotStatus{
	domain.SlotStatusInactive,
	domain.SlotStatusFull,
	domain.SlotStatusActive,
}

// UseCase синхронизирует ёмкость слотов смены с числом назначенных техников
type UseCase struct {
	assignmentRepo AssignmentRepository
	slotRepo       SlotRepository
	txManager      TransactionManager
	metrics        Metrics
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	assignmentRepo AssignmentRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		assignmentRepo: assignmentRepo,
		slotRepo:       slotRepo,
		txManager:      txManager,
		metrics:        metrics,
		logger:         logger,
	}
}

// Sync пересчитывает ёмкость и статусы слотов смены.
// Ошибки логируются и не возвращаются: ёмкость будет исправлена следующей успешной синхронизацией.
func (uc *UseCase) Sync(ctx context.Context, shiftID int64) {
	if _, err := uc.Execute(ctx, shiftID); err != nil {
		uc.logger.Error("SyncCapacity: shift=%d left with stale capacity: %v", shiftID, err)
	}
}

// Execute пересчитывает ёмкость в одной транзакции и возвращает итог
func (uc *UseCase) Execute(ctx context.Context, shiftID int64) (*Result, error) {
	if shiftID <= 0 {
		uc.metrics.CapacitySynced(metrics.SyncResultFailed)
		return nil, fmt.Errorf("%w: shiftID must be positive", ErrInvalidInput)
	}

	result := &Result{
		ShiftID:       shiftID,
		StatusChanges: make(map[domain.SlotStatus]int),
	}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем слоты смены до конца транзакции.
		// Конкурирующая синхронизация той же смены ждёт здесь и посчитает техников после нашего коммита.
		slots, err := uc.slotRepo.GetByShiftID(txCtx, shiftID)
		if err != nil {
			return fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
		}

		// 2. Новая ёмкость - текущее число техников на смене, считается под блокировкой
		capacity, err := uc.assignmentRepo.CountTechniciansByShift(txCtx, shiftID)
		if err != nil {
			return fmt.Errorf("%w: failed to count technicians: %v", ErrInternal, err)
		}
		result.Capacity = capacity

		if len(slots) == 0 {
			return nil
		}

		// 3. Выставляем ёмкость всем слотам смены
		updated, err := uc.slotRepo.UpdateCapacity(txCtx, shiftID, capacity)
		if err != nil {
			return fmt.Errorf("%w: failed to update capacity: %v", ErrInternal, err)
		}
		result.SlotsUpdated = int(updated)

		// 4. Пересчитываем статусы по новой паре (capacity, booked_count) и группируем изменения
		changed := make(map[domain.SlotStatus][]int64)
		for _, slot := range slots {
			previous := slot.Status
			slot.Capacity = capacity
			slot.Recalculate()

			if slot.Status != previous {
				changed[slot.Status] = append(changed[slot.Status], slot.ID)
			}
		}

		// 5. Одно обновление на каждый целевой статус
		for _, status := range statusOrder {
			ids := changed[status]
			if len(ids) == 0 {
				continue
			}

			if _, err := uc.slotRepo.UpdateStatuses(txCtx, status, ids); err != nil {
				return fmt.Errorf("%w: failed to update statuses to %s: %v", ErrInternal, status, err)
			}
			result.StatusChanges[status] = len(ids)
		}

		return nil
	})
	if err != nil {
		uc.metrics.CapacitySynced(metrics.SyncResultFailed)
		return nil, err
	}

	uc.metrics.CapacitySynced(metrics.SyncResultOK)

	uc.logger.Info("SyncCapacity: shift=%d capacity=%d slots=%d status_changes=%v",
		shiftID, result.Capacity, result.SlotsUpdated, result.StatusChanges)

	return result, nil
}
