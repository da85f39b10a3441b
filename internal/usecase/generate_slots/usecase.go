package generate_slots

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

// UseCase use case для генерации слотов по сменам
type UseCase struct {
	shiftRepo      ShiftRepository
	assignmentRepo AssignmentRepository
	slotRepo       SlotRepository
	metrics        Metrics
	logger         Logger
	maxSlots       int
}

// NewUseCase создает новый экземпляр use case.
// maxSlots <= 0 означает лимит по умолчанию (domain.MaxEstimatedSlots).
func NewUseCase(
	shiftRepo ShiftRepository,
	assignmentRepo AssignmentRepository,
	slotRepo SlotRepository,
	metrics Metrics,
	logger Logger,
	maxSlots int,
) *UseCase {
	if maxSlots <= 0 {
		maxSlots = domain.MaxEstimatedSlots
	}

	return &UseCase{
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		slotRepo:       slotRepo,
		metrics:        metrics,
		logger:         logger,
		maxSlots:       maxSlots,
	}
}

// Execute генерирует слоты для всех пар (центр, дата) запроса.
// Отсутствие смен или техников для пары не является ошибкой - это предупреждение.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	runID := uuid.NewString()

	// 1. Валидация входных данных и лимита (до любых обращений к БД)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSlots[%s]: validation failed: %v", runID, err)
		return nil, err
	}

	// Оценка по сырому запросу: |centerIds| × |dates| без учёта повторов
	if err := validateLimit(req, uc.maxSlots); err != nil {
		uc.logger.Warn("GenerateSlots[%s]: %v", runID, err)
		return nil, err
	}

	normalizeRequest(req)

	uc.logger.Info("GenerateSlots[%s]: centers=%v, dates=%d, window=%s-%s, duration=%d",
		runID, req.CenterIDs, len(req.Dates), req.WindowStart, req.WindowEnd, req.DurationMinutes)

	response := &Response{
		Slots:    []*domain.Slot{},
		Warnings: []Warning{},
	}

	// 2. Для каждой пары (центр, дата) отбираем активные смены, пересекающие окно
	pairs := make([]pair, 0, len(req.CenterIDs)*len(req.Dates))
	shiftIDs := make([]int64, 0)

	for _, centerID := range req.CenterIDs {
		for _, date := range req.Dates {
			shifts, err := uc.shiftRepo.GetActiveByCenterAndDate(ctx, centerID, date)
			if err != nil {
				uc.logger.Error("GenerateSlots[%s]: failed to get shifts for center=%d, date=%s: %v",
					runID, centerID, date.Format(domain.DateFormat), err)
				return nil, fmt.Errorf("%w: failed to get shifts: %v", ErrInternal, err)
			}

			if len(shifts) == 0 {
				uc.warn(response, newWarning(centerID, date, nil, domain.WarningNoActiveShift,
					fmt.Sprintf("no active shift for center %d on %s", centerID, date.Format(domain.DateFormat))))
				continue
			}

			overlapping := overlappingShifts(shifts, req.WindowStart, req.WindowEnd)
			if len(overlapping) == 0 {
				uc.warn(response, newWarning(centerID, date, nil, domain.WarningNoOverlappingShift,
					fmt.Sprintf("no shift overlaps %s-%s for center %d on %s",
						req.WindowStart, req.WindowEnd, centerID, date.Format(domain.DateFormat))))
				continue
			}

			pairs = append(pairs, pair{centerID: centerID, date: date, shifts: overlapping})
			for _, s := range overlapping {
				shiftIDs = append(shiftIDs, s.ID)
			}
		}
	}

	if len(pairs) == 0 {
		uc.logger.Info("GenerateSlots[%s]: nothing to generate, warnings=%d", runID, len(response.Warnings))
		uc.metrics.SlotsGenerated(0, 0)
		return response, nil
	}

	// 3. Считаем техников для всех отобранных смен одним запросом
	technicians, err := uc.assignmentRepo.CountTechniciansByShifts(ctx, shiftIDs)
	if err != nil {
		uc.logger.Error("GenerateSlots[%s]: failed to count technicians: %v", runID, err)
		return nil, fmt.Errorf("%w: failed to count technicians: %v", ErrInternal, err)
	}

	// 4. Строим кандидатов: шаги окна, целиком попадающие в смену с ненулевым числом техников
	candidates := make([]*domain.Slot, 0)

	for _, p := range pairs {
		for _, s := range p.shifts {
			capacity := technicians[s.ID]
			if capacity == 0 {
				uc.warn(response, newWarning(p.centerID, p.date, ptr.Ptr(s.ID), domain.WarningNoTechnicians,
					fmt.Sprintf("shift %d (%s-%s) has no technicians assigned", s.ID, s.StartTime, s.EndTime)))
				continue
			}

			shiftSlots, err := buildCandidates(s, p.date, req.WindowStart, req.WindowEnd, req.DurationMinutes, capacity)
			if err != nil {
				uc.logger.Error("GenerateSlots[%s]: failed to build slots for shift=%d: %v", runID, s.ID, err)
				return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
			}

			candidates = append(candidates, shiftSlots...)
		}
	}

	if len(candidates) == 0 {
		uc.logger.Info("GenerateSlots[%s]: no candidates, warnings=%d", runID, len(response.Warnings))
		uc.metrics.SlotsGenerated(0, 0)
		return response, nil
	}

	// 5. Отбрасываем кандидатов, уже существующих в БД
	dateFrom, dateTo := dateRange(req.Dates)

	existing, err := uc.slotRepo.GetByFilter(ctx, domain.SlotsFilter{
		CenterIDs: req.CenterIDs,
		DateFrom:  &dateFrom,
		DateTo:    &dateTo,
	})
	if err != nil {
		uc.logger.Error("GenerateSlots[%s]: failed to load existing slots: %v", runID, err)
		return nil, fmt.Errorf("%w: failed to load existing slots: %v", ErrInternal, err)
	}

	fresh, skipped := discardExisting(candidates, existing)

	// 6. Сохраняем оставшихся одной пачкой.
	// Строки, вставленные параллельным запросом после проверки, отсекает уникальный ключ.
	if len(fresh) > 0 {
		created, err := uc.slotRepo.CreateBatch(ctx, fresh)
		if err != nil {
			uc.logger.Error("GenerateSlots[%s]: failed to create slots: %v", runID, err)
			return nil, fmt.Errorf("%w: failed to create slots: %v", ErrInternal, err)
		}

		skipped += len(fresh) - len(created)
		response.Slots = created
	}

	response.Created = len(response.Slots)
	response.Skipped = skipped

	uc.metrics.SlotsGenerated(response.Created, response.Skipped)

	uc.logger.Info("GenerateSlots[%s]: created=%d, skipped=%d, warnings=%d",
		runID, response.Created, response.Skipped, len(response.Warnings))

	return response, nil
}

func (uc *UseCase) warn(response *Response, w Warning) {
	uc.logger.Warn("GenerateSlots: %s", w.Message)
	uc.metrics.GenerationWarning(w.Reason)
	response.Warnings = append(response.Warnings, w)
}
