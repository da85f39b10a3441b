package assignments

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("assignments.service: staff not found")

	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("assignments.service: shift not found")

	// ErrShiftNotActive возвращается при назначении на завершённую или отменённую смену
	ErrShiftNotActive = errors.New("assignments.service: shift is not active")

	// ErrCenterMismatch возвращается, когда смена принадлежит другому центру
	ErrCenterMismatch = errors.New("assignments.service: shift belongs to another center")

	// ErrDuplicateAssignment возвращается, когда сотрудник уже назначен на смену
	ErrDuplicateAssignment = errors.New("assignments.service: staff already assigned to shift")

	// ErrAssignmentNotFound возвращается, когда назначение не найдено
	ErrAssignmentNotFound = errors.New("assignments.service: assignment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("assignments.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("assignments.service: internal error")
)
