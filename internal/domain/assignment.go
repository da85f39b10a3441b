package domain

import "time"

// Assignment links one staff member to one shift
type Assignment struct {
	ID        int64
	StaffID   int64
	ShiftID   int64
	CreatedAt time.Time
}
