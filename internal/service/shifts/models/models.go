package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе смены
	ErrInvalidStatus = errors.New("invalid shift status")
)

// Request модели

// BulkCreateRequest запрос на создание смен центра на несколько дат с одним окном
type BulkCreateRequest struct {
	CenterID  int64
	Dates     []time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ListRequest запрос на получение смен центра
type ListRequest struct {
	CenterID int64
	Date     *time.Time
	Status   *string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.ShiftsFilter, error) {
	filter := domain.ShiftsFilter{
		CenterID: &r.CenterID,
		Date:     r.Date,
	}

	if r.Status != nil {
		status := domain.ShiftStatus(*r.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: %q", ErrInvalidStatus, *r.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ShiftResponse ответ с данными смены
type ShiftResponse struct {
	ID        int64     `json:"id"`
	CenterID  int64     `json:"centerId"`
	Date      string    `json:"date"`      // "2025-11-10"
	StartTime string    `json:"startTime"` // "09:00"
	EndTime   string    `json:"endTime"`   // "18:00"
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BulkCreateResponse результат массового создания смен
type BulkCreateResponse struct {
	Created []ShiftResponse `json:"created"`
	Skipped int             `json:"skipped"` // смены, уже существовавшие с тем же окном
}

// ShiftListResponse ответ со списком смен
type ShiftListResponse struct {
	Shifts []ShiftResponse `json:"shifts"`
}

// Методы конвертации

// FromDomainShift конвертирует domain модель в DTO
func FromDomainShift(s *domain.Shift) ShiftResponse {
	return ShiftResponse{
		ID:        s.ID,
		CenterID:  s.CenterID,
		Date:      s.ShiftDate.Format(domain.DateFormat),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromDomainShiftList конвертирует список domain моделей в DTO
func FromDomainShiftList(shifts []*domain.Shift) []ShiftResponse {
	result := make([]ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		result = append(result, FromDomainShift(s))
	}
	return result
}
