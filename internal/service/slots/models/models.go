package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе слота
	ErrInvalidStatus = errors.New("invalid slot status")

	// ErrInvalidDateRange возвращается, когда dateFrom позже dateTo
	ErrInvalidDateRange = errors.New("invalid date range")
)

// Request модели

// ListSlotsRequest запрос на получение слотов. Все фильтры опциональны.
// Date имеет приоритет над DateFrom/DateTo.
type ListSlotsRequest struct {
	CenterID *int64
	Date     *time.Time
	DateFrom *time.Time
	DateTo   *time.Time
	Status   *string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListSlotsRequest) ToDomainFilter() (domain.SlotsFilter, error) {
	filter := domain.SlotsFilter{
		Date:     r.Date,
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
	}

	if r.CenterID != nil {
		filter.CenterIDs = []int64{*r.CenterID}
	}

	if r.Date == nil && r.DateFrom != nil && r.DateTo != nil && r.DateFrom.After(*r.DateTo) {
		return filter, fmt.Errorf("%w: dateFrom %s is after dateTo %s", ErrInvalidDateRange,
			r.DateFrom.Format(domain.DateFormat), r.DateTo.Format(domain.DateFormat))
	}

	if r.Status != nil {
		status := domain.SlotStatus(*r.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: %q", ErrInvalidStatus, *r.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID             int64  `json:"id"`
	CenterID       int64  `json:"centerId"`
	ShiftID        int64  `json:"shiftId"`
	Date           string `json:"date"`      // "2025-11-10"
	StartTime      string `json:"startTime"` // "09:00"
	EndTime        string `json:"endTime"`   // "09:30"
	Capacity       int    `json:"capacity"`
	BookedCount    int    `json:"bookedCount"`
	AvailableSpots int    `json:"availableSpots"`
	Status         string `json:"status"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		CenterID:       s.CenterID,
		ShiftID:        s.ShiftID,
		Date:           s.SlotDate.Format(domain.DateFormat),
		StartTime:      s.StartTime.String(),
		EndTime:        s.EndTime.String(),
		Capacity:       s.Capacity,
		BookedCount:    s.BookedCount,
		AvailableSpots: s.AvailableSpots(),
		Status:         string(s.Status),
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	result := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		result.Slots = append(result.Slots, FromDomainSlot(s))
	}
	return result
}
