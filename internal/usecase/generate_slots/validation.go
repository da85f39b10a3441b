package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if len(req.CenterIDs) == 0 {
		return fmt.Errorf("%w: centerIds must not be empty", ErrInvalidInput)
	}

	for _, id := range req.CenterIDs {
		if id <= 0 {
			return fmt.Errorf("%w: centerId must be positive, got %d", ErrInvalidInput, id)
		}
	}

	if len(req.Dates) == 0 {
		return fmt.Errorf("%w: dates must not be empty", ErrInvalidInput)
	}

	for _, d := range req.Dates {
		if d.IsZero() {
			return fmt.Errorf("%w: date is required", ErrInvalidInput)
		}
	}

	if req.WindowStart.IsZero() || req.WindowEnd.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.WindowStart.IsBefore(req.WindowEnd) {
		return fmt.Errorf("%w: endTime %s must be after startTime %s", ErrInvalidInput, req.WindowEnd, req.WindowStart)
	}

	if req.DurationMinutes < domain.MinSlotDurationMinutes || req.DurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	return nil
}

// estimateSlots оценивает количество слотов сверху:
// ceil((windowEnd - windowStart) / duration) * |centers| * |dates|
func estimateSlots(req *Request) int {
	window := req.WindowEnd.Minutes() - req.WindowStart.Minutes()
	steps := (window + req.DurationMinutes - 1) / req.DurationMinutes
	return steps * len(req.CenterIDs) * len(req.Dates)
}

// validateLimit отклоняет запрос, если оценка превышает лимит
func validateLimit(req *Request, limit int) error {
	if estimated := estimateSlots(req); estimated > limit {
		return fmt.Errorf("%w: %d slots estimated, limit is %d", ErrTooManySlots, estimated, limit)
	}
	return nil
}

// normalizeRequest убирает повторяющиеся центры и даты, даты приводятся к календарному дню
func normalizeRequest(req *Request) {
	centers := make([]int64, 0, len(req.CenterIDs))
	seenCenters := make(map[int64]struct{}, len(req.CenterIDs))
	for _, id := range req.CenterIDs {
		if _, ok := seenCenters[id]; ok {
			continue
		}
		seenCenters[id] = struct{}{}
		centers = append(centers, id)
	}

	dates := make([]time.Time, 0, len(req.Dates))
	seen := make(map[time.Time]struct{}, len(req.Dates))
	for _, d := range req.Dates {
		day := domain.CalendarDay(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}

	req.CenterIDs = centers
	req.Dates = dates
}
