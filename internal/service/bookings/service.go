package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings/models"
)

// Service учёт бронирований в слотах.
// Меняет только booked_count и пересчитывает статус слота; ёмкость не трогает.
// Строка слота блокируется на время изменения, поэтому параллельные бронирования
// одного слота и пересчёт ёмкости смены выполняются по очереди.
// Слот, время которого уже прошло в location, не бронируется и до ночного перевода в expired.
type Service struct {
	slotRepo  SlotRepository
	txManager TransactionManager
	logger    Logger
	location  *time.Location
	now       func() time.Time
}

// NewService создает новый экземпляр сервиса бронирований.
// location == nil означает UTC.
func NewService(slotRepo SlotRepository, txManager TransactionManager, logger Logger, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		slotRepo:  slotRepo,
		txManager: txManager,
		logger:    logger,
		location:  location,
		now:       time.Now,
	}
}

// Reserve занимает одно место в слоте
func (s *Service) Reserve(ctx context.Context, slotID int64) (*models.SlotBookingResponse, error) {
	s.logger.Info("Reserve: reserving spot in slot id=%d", slotID)

	slot, err := s.change(ctx, "Reserve", slotID, func(slot *domain.Slot) error {
		if slot.HasEnded(s.now(), s.location) {
			return fmt.Errorf("%w: slot id=%d ended at %s %s",
				ErrSlotNotAvailable, slot.ID, slot.SlotDate.Format(domain.DateFormat), slot.EndTime)
		}
		if !slot.CanBeReserved(s.now(), s.location) {
			return fmt.Errorf("%w: slot id=%d status=%s, booked %d of %d",
				ErrSlotNotAvailable, slot.ID, slot.Status, slot.BookedCount, slot.Capacity)
		}
		slot.BookedCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reserve: slot id=%d booked %d of %d, status=%s", slot.ID, slot.BookedCount, slot.Capacity, slot.Status)
	return models.FromDomainSlot(slot), nil
}

// Release освобождает одно место в слоте
func (s *Service) Release(ctx context.Context, slotID int64) (*models.SlotBookingResponse, error) {
	s.logger.Info("Release: releasing spot in slot id=%d", slotID)

	slot, err := s.change(ctx, "Release", slotID, func(slot *domain.Slot) error {
		if slot.BookedCount == 0 {
			return fmt.Errorf("%w: slot id=%d", ErrNothingToRelease, slot.ID)
		}
		slot.BookedCount--
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Release: slot id=%d booked %d of %d, status=%s", slot.ID, slot.BookedCount, slot.Capacity, slot.Status)
	return models.FromDomainSlot(slot), nil
}

// change блокирует слот, применяет mutate к числу бронирований и сохраняет пересчитанный статус
func (s *Service) change(ctx context.Context, op string, slotID int64, mutate func(slot *domain.Slot) error) (*domain.Slot, error) {
	if slotID <= 0 {
		return nil, fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}

	var result *domain.Slot

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем слот с блокировкой строки
		slot, err := s.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: %s - get slot: %v", ErrInternal, op, err)
		}

		// 2. Меняем число бронирований
		if err := mutate(slot); err != nil {
			return err
		}

		// 3. Пересчитываем статус и сохраняем
		slot.Recalculate()
		if err := s.slotRepo.UpdateBooking(txCtx, slot.ID, slot.BookedCount, slot.Status); err != nil {
			return fmt.Errorf("%w: %s - update slot: %v", ErrInternal, op, err)
		}

		result = slot
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("%s: slot id=%d: %v", op, slotID, err)
		} else {
			s.logger.Warn("%s: slot id=%d: %v", op, slotID, err)
		}
		return nil, err
	}

	return result, nil
}
