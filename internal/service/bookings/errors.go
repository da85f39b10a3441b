package bookings

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("bookings.service: slot not found")

	// ErrSlotNotAvailable возвращается, когда в слоте нет свободных мест или он не активен
	ErrSlotNotAvailable = errors.New("bookings.service: slot is not available")

	// ErrNothingToRelease возвращается при освобождении места в слоте без бронирований
	ErrNothingToRelease = errors.New("bookings.service: slot has no bookings to release")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
