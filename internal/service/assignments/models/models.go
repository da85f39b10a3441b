package models

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Request модели

// BulkAssignRequest запрос на назначение сотрудника на несколько смен
type BulkAssignRequest struct {
	StaffID  int64
	ShiftIDs []int64
}

// Response модели

// AssignmentResponse ответ с данными назначения
type AssignmentResponse struct {
	ID        int64     `json:"id"`
	StaffID   int64     `json:"staffId"`
	ShiftID   int64     `json:"shiftId"`
	CreatedAt time.Time `json:"createdAt"`
}

// BulkAssignResponse результат массового назначения
type BulkAssignResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// Методы конвертации

// FromDomainAssignment конвертирует domain модель в DTO
func FromDomainAssignment(a *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.ID,
		StaffID:   a.StaffID,
		ShiftID:   a.ShiftID,
		CreatedAt: a.CreatedAt,
	}
}
