package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модель запроса на генерацию слотов
type Request struct {
	CenterIDs       []int64          // ID центров
	Dates           []time.Time      // Даты (без времени)
	WindowStart     types.TimeString // Начало окна генерации
	WindowEnd       types.TimeString // Конец окна генерации (строго позже начала)
	DurationMinutes int              // Длительность одного слота
}

// Warning предупреждение по паре (центр, дата) или по конкретной смене.
// Предупреждения не прерывают генерацию.
type Warning struct {
	CenterID int64
	Date     time.Time
	ShiftID  *int64 // заполнено только для предупреждений уровня смены
	Reason   string // domain.Warning*
	Message  string
}

// Response результат генерации
type Response struct {
	Created  int            // Количество созданных слотов
	Skipped  int            // Количество кандидатов, отброшенных как дубликаты
	Slots    []*domain.Slot // Созданные слоты
	Warnings []Warning
}
