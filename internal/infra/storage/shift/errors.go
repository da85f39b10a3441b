package shift

import "errors"

var (
	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("shift.repository: shift not found")

	// ErrShiftNotActive возвращается при попытке изменить статус неактивной смены
	ErrShiftNotActive = errors.New("shift.repository: shift is not active")

	// ErrShiftInUse возвращается при удалении смены, на которую ссылаются назначения или слоты
	ErrShiftInUse = errors.New("shift.repository: shift is referenced by assignments or slots")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("shift.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("shift.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("shift.repository: failed to scan row")
)
