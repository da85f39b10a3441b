package models

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// Response модели

// SlotBookingResponse состояние слота после изменения числа бронирований
type SlotBookingResponse struct {
	SlotID         int64  `json:"slotId"`
	Capacity       int    `json:"capacity"`
	BookedCount    int    `json:"bookedCount"`
	AvailableSpots int    `json:"availableSpots"`
	Status         string `json:"status"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) *SlotBookingResponse {
	return &SlotBookingResponse{
		SlotID:         s.ID,
		Capacity:       s.Capacity,
		BookedCount:    s.BookedCount,
		AvailableSpots: s.AvailableSpots(),
		Status:         string(s.Status),
	}
}
