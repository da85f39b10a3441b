package sync_capacity

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// Result итог синхронизации ёмкости смены
type Result struct {
	ShiftID       int64
	Capacity      int                       // Новое число техников
	SlotsUpdated  int                       // Слотов с обновлённой ёмкостью
	StatusChanges map[domain.SlotStatus]int // Сколько слотов перешло в каждый статус
}
