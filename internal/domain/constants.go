package domain

// Ограничения генерации слотов
const (
	// MaxEstimatedSlots верхняя граница оценки количества слотов в одном запросе генерации
	MaxEstimatedSlots      = 5000
	MinSlotDurationMinutes = 1
	MaxSlotDurationMinutes = 24 * 60
)

// MaxShiftDatesPerRequest ограничивает число дат в одном запросе массового создания смен
const MaxShiftDatesPerRequest = 366

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Причины предупреждений при генерации слотов
const (
	WarningNoActiveShift      = "no_active_shift"
	WarningNoOverlappingShift = "no_overlapping_shift"
	WarningNoTechnicians      = "no_technicians"
)
