package shiftsweeper

import "errors"

var (
	// ErrCompleteShifts возвращается, когда не удалось завершить прошедшие смены
	ErrCompleteShifts = errors.New("shiftsweeper: failed to complete shifts")

	// ErrExpireSlots возвращается, когда не удалось пометить прошедшие слоты
	ErrExpireSlots = errors.New("shiftsweeper: failed to expire slots")
)
