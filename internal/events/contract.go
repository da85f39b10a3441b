package events

import "context"

// CapacitySyncer подписчик, пересчитывающий ёмкость слотов смены
type CapacitySyncer interface {
	Sync(ctx context.Context, shiftID int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
