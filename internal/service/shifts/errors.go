package shifts

import "errors"

var (
	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("shifts.service: shift not found")

	// ErrShiftNotActive возвращается при попытке отменить неактивную смену
	ErrShiftNotActive = errors.New("shifts.service: shift is not active")

	// ErrShiftInUse возвращается при удалении смены, на которую ссылаются назначения или слоты
	ErrShiftInUse = errors.New("shifts.service: shift has assignments or slots")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("shifts.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("shifts.service: internal error")
)
