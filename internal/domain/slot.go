package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// SlotStatus represents the bookable status of a slot
type SlotStatus string

const (
	SlotStatusActive   SlotStatus = "active"
	SlotStatusInactive SlotStatus = "inactive"
	SlotStatusFull     SlotStatus = "full"
	SlotStatusExpired  SlotStatus = "expired"
)

// IsValid returns true if the status is one of the known slot statuses
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusActive, SlotStatusInactive, SlotStatusFull, SlotStatusExpired:
		return true
	}
	return false
}

// DeriveSlotStatus computes the status of a slot from its current capacity and booked count.
// It is a pure function of the pair: no capacity means inactive, a booked count that
// reaches capacity means full, anything else is active.
func DeriveSlotStatus(capacity, bookedCount int) SlotStatus {
	if capacity <= 0 {
		return SlotStatusInactive
	}
	if bookedCount >= capacity {
		return SlotStatusFull
	}
	return SlotStatusActive
}

// Slot is a bookable unit of time at a center, derived from exactly one shift
type Slot struct {
	ID          int64
	CenterID    int64
	SlotDate    time.Time // без времени
	StartTime   types.TimeString
	EndTime     types.TimeString
	Capacity    int // число техников на исходной смене
	BookedCount int
	Status      SlotStatus
	ShiftID     int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recalculate re-derives the slot status from capacity and booked count.
// Expired slots stay expired.
func (s *Slot) Recalculate() {
	if s.Status == SlotStatusExpired {
		return
	}
	s.Status = DeriveSlotStatus(s.Capacity, s.BookedCount)
}

// HasEnded returns true once the slot end time has passed in loc.
// Matches the sweeper's expiry rule, so it holds before the sweep marks the slot expired.
func (s *Slot) HasEnded(now time.Time, loc *time.Location) bool {
	return !now.In(loc).Before(s.EndTime.On(s.SlotDate, loc))
}

// CanBeReserved returns true if one more booking fits into the slot and the slot has not ended
func (s *Slot) CanBeReserved(now time.Time, loc *time.Location) bool {
	return s.Status == SlotStatusActive && s.BookedCount < s.Capacity && !s.HasEnded(now, loc)
}

// AvailableSpots returns the number of spots left, never negative
func (s *Slot) AvailableSpots() int {
	if s.BookedCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.BookedCount
}

// Key returns the deduplication key of the slot
func (s *Slot) Key() SlotKey {
	return NewSlotKey(s.CenterID, s.SlotDate, s.StartTime, s.ShiftID)
}

// SlotKey identifies a logically unique slot: (center, date, start time, originating shift)
type SlotKey struct {
	CenterID  int64
	Date      string // YYYY-MM-DD
	StartTime types.TimeString
	ShiftID   int64
}

// NewSlotKey builds a dedup key. The date is normalized to its calendar day.
func NewSlotKey(centerID int64, date time.Time, start types.TimeString, shiftID int64) SlotKey {
	return SlotKey{
		CenterID:  centerID,
		Date:      date.Format(DateFormat),
		StartTime: start,
		ShiftID:   shiftID,
	}
}

// SlotsFilter фильтр для получения слотов. Все поля опциональны.
// Date имеет приоритет над DateFrom/DateTo.
type SlotsFilter struct {
	CenterIDs []int64
	ShiftID   *int64
	Date      *time.Time
	DateFrom  *time.Time
	DateTo    *time.Time
	Status    *SlotStatus
}
