package sync_capacity

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном ID смены
	ErrInvalidInput = errors.New("sync_capacity: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("sync_capacity: internal error")
)
