package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// ShiftStatus represents the lifecycle status of a shift
type ShiftStatus string

const (
	ShiftStatusActive    ShiftStatus = "active"
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusCancelled ShiftStatus = "cancelled"
)

// IsValid returns true if the status is one of the known shift statuses
func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftStatusActive, ShiftStatusCompleted, ShiftStatusCancelled:
		return true
	}
	return false
}

// Shift represents one staffed working window at one center on one calendar day
type Shift struct {
	ID        int64
	CenterID  int64
	ShiftDate time.Time // без времени
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    ShiftStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the shift is still active
func (s *Shift) IsActive() bool {
	return s.Status == ShiftStatusActive
}

// Overlaps returns true if the shift window intersects [windowStart, windowEnd)
func (s *Shift) Overlaps(windowStart, windowEnd types.TimeString) bool {
	lo := max(s.StartTime.Minutes(), windowStart.Minutes())
	hi := min(s.EndTime.Minutes(), windowEnd.Minutes())
	return lo < hi
}

// Contains returns true if [start, start+duration) lies entirely inside the shift window
func (s *Shift) Contains(startMinutes, durationMinutes int) bool {
	return s.StartTime.Minutes() <= startMinutes && startMinutes+durationMinutes <= s.EndTime.Minutes()
}

// ShouldBeCompleted returns true if the shift has elapsed at moment now.
// Dates are compared as calendar days in loc: a shift from a past day is over,
// a shift from today is over once its end time has been reached, a future shift is not.
func (s *Shift) ShouldBeCompleted(now time.Time, loc *time.Location) bool {
	localNow := now.In(loc)
	today := CalendarDay(localNow)
	shiftDay := CalendarDay(s.ShiftDate)

	switch {
	case shiftDay.Before(today):
		return true
	case shiftDay.After(today):
		return false
	default:
		return !localNow.Before(s.EndTime.On(s.ShiftDate, loc))
	}
}

// CalendarDay returns the calendar day of t as midnight UTC.
// Used to compare dates coming from DATE columns with local wall-clock days.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ShiftsFilter фильтр для получения смен
type ShiftsFilter struct {
	CenterID *int64
	Date     *time.Time
	Status   *ShiftStatus
}
