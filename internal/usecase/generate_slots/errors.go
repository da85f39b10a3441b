package generate_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrTooManySlots возвращается, когда оценка количества слотов превышает лимит
	ErrTooManySlots = errors.New("generate_slots: estimated slot count exceeds limit")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
