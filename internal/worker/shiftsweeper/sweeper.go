package shiftsweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Result итог одного прохода
type Result struct {
	CompletedShifts int64
	ExpiredSlots    int64
}

// Sweeper переводит прошедшие активные смены в completed и помечает прошедшие слоты как expired.
// Запускается при старте сервиса и затем ежедневно в час sweepHour по локальному времени.
type Sweeper struct {
	shiftRepo ShiftRepository
	slotRepo  SlotRepository
	metrics   Metrics
	logger    Logger

	location  *time.Location
	sweepHour int
	now       func() time.Time
}

// NewSweeper создает новый экземпляр фонового обработчика смен
func NewSweeper(
	shiftRepo ShiftRepository,
	slotRepo SlotRepository,
	metrics Metrics,
	logger Logger,
	location *time.Location,
	sweepHour int,
) *Sweeper {
	if location == nil {
		location = time.UTC
	}

	return &Sweeper{
		shiftRepo: shiftRepo,
		slotRepo:  slotRepo,
		metrics:   metrics,
		logger:    logger,
		location:  location,
		sweepHour: sweepHour,
		now:       time.Now,
	}
}

// Run выполняет проход сразу и затем раз в сутки, пока не отменён ctx.
// Ошибки прохода логируются, цикл продолжается.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started (timezone=%s, hour=%d)", s.location, s.sweepHour)

	s.runOnce(ctx)

	for {
		next := nextRun(s.now(), s.location, s.sweepHour)
		timer := time.NewTimer(next.Sub(s.now()))
		s.logger.Info("Sweeper: next run at %s", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Sweeper: stopped")
			return
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("Sweeper: sweep failed: %v", err)
	}
}

// Sweep выполняет один проход.
// Слоты помечаются отдельно от смен: ошибка завершения смен не мешает пометить слоты.
func (s *Sweeper) Sweep(ctx context.Context) (*Result, error) {
	localNow := s.now().In(s.location)
	result := &Result{}

	// 1. Завершаем прошедшие смены
	completed, completeErr := s.completeShifts(ctx, localNow)
	result.CompletedShifts = completed

	// 2. Помечаем прошедшие слоты
	expired, err := s.slotRepo.ExpirePast(ctx, domain.CalendarDay(localNow), types.NewTimeString(localNow))
	if err != nil {
		s.logger.Error("Sweep: failed to expire slots: %v", err)
		return result, errors.Join(completeErr, fmt.Errorf("%w: %v", ErrExpireSlots, err))
	}
	result.ExpiredSlots = expired
	s.metrics.SlotsExpired(int(expired))

	if completeErr != nil {
		return result, completeErr
	}

	s.logger.Info("Sweep: completed %d shifts, expired %d slots", result.CompletedShifts, result.ExpiredSlots)
	return result, nil
}

func (s *Sweeper) completeShifts(ctx context.Context, now time.Time) (int64, error) {
	shifts, err := s.shiftRepo.GetActive(ctx)
	if err != nil {
		s.logger.Error("Sweep: failed to get active shifts: %v", err)
		return 0, fmt.Errorf("%w: get active shifts: %v", ErrCompleteShifts, err)
	}

	ids := make([]int64, 0)
	for _, shift := range shifts {
		if shift.ShouldBeCompleted(now, s.location) {
			ids = append(ids, shift.ID)
		}
	}

	if len(ids) == 0 {
		return 0, nil
	}

	completed, err := s.shiftRepo.CompleteBatch(ctx, ids)
	if err != nil {
		s.logger.Error("Sweep: failed to complete %d shifts: %v", len(ids), err)
		return 0, fmt.Errorf("%w: complete batch: %v", ErrCompleteShifts, err)
	}

	if completed < int64(len(ids)) {
		s.logger.Warn("Sweep: %d of %d shifts left active state concurrently", int64(len(ids))-completed, len(ids))
	}
	s.metrics.ShiftsCompleted(int(completed))

	return completed, nil
}

// nextRun возвращает ближайший момент hour:00 в loc строго после now
func nextRun(now time.Time, loc *time.Location, hour int) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}
