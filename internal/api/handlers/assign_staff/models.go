package assign_staff

import (
	"github.com/m04kA/SMC-ScheduleService/internal/service/assignments/models"
)

// AssignStaffRequest HTTP request model
type AssignStaffRequest struct {
	ShiftIDs []int64 `json:"shiftIds"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AssignStaffRequest) ToServiceRequest(staffID int64) *models.BulkAssignRequest {
	return &models.BulkAssignRequest{
		StaffID:  staffID,
		ShiftIDs: r.ShiftIDs,
	}
}
