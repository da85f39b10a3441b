package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// pair пара (центр, дата) с отобранными сменами
type pair struct {
	centerID int64
	date     time.Time
	shifts   []*domain.Shift
}

// overlappingShifts оставляет смены, окно которых пересекается с [windowStart, windowEnd)
func overlappingShifts(shifts []*domain.Shift, windowStart, windowEnd types.TimeString) []*domain.Shift {
	result := make([]*domain.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.Overlaps(windowStart, windowEnd) {
			result = append(result, s)
		}
	}
	return result
}

// buildCandidates проходит окно шагами по duration начиная с windowStart
// и выпускает слот на каждый шаг, целиком помещающийся в окно смены.
// Слоты разных смен не объединяются даже при совпадении времени.
func buildCandidates(
	shift *domain.Shift,
	date time.Time,
	windowStart, windowEnd types.TimeString,
	duration int,
	capacity int,
) ([]*domain.Slot, error) {
	candidates := make([]*domain.Slot, 0)

	for step := windowStart.Minutes(); step < windowEnd.Minutes(); step += duration {
		if !shift.Contains(step, duration) {
			continue
		}

		start, err := types.NewTimeStringFromMinutes(step)
		if err != nil {
			return nil, fmt.Errorf("slot start: %w", err)
		}
		end, err := types.NewTimeStringFromMinutes(step + duration)
		if err != nil {
			return nil, fmt.Errorf("slot end: %w", err)
		}

		candidates = append(candidates, &domain.Slot{
			CenterID:    shift.CenterID,
			SlotDate:    date,
			StartTime:   start,
			EndTime:     end,
			Capacity:    capacity,
			BookedCount: 0,
			Status:      domain.DeriveSlotStatus(capacity, 0),
			ShiftID:     shift.ID,
		})
	}

	return candidates, nil
}

// discardExisting отбрасывает кандидатов, чей ключ уже есть среди existing
// (или повторяется среди самих кандидатов). Возвращает оставшихся и число отброшенных.
func discardExisting(candidates []*domain.Slot, existing []*domain.Slot) ([]*domain.Slot, int) {
	keys := make(map[domain.SlotKey]struct{}, len(existing)+len(candidates))
	for _, s := range existing {
		keys[s.Key()] = struct{}{}
	}

	fresh := make([]*domain.Slot, 0, len(candidates))
	skipped := 0

	for _, c := range candidates {
		key := c.Key()
		if _, ok := keys[key]; ok {
			skipped++
			continue
		}
		keys[key] = struct{}{}
		fresh = append(fresh, c)
	}

	return fresh, skipped
}

// dateRange возвращает минимальную и максимальную дату
func dateRange(dates []time.Time) (time.Time, time.Time) {
	from, to := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}
	return from, to
}

func newWarning(centerID int64, date time.Time, shiftID *int64, reason, message string) Warning {
	return Warning{
		CenterID: centerID,
		Date:     date,
		ShiftID:  shiftID,
		Reason:   reason,
		Message:  message,
	}
}
