package assign_staff

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/assignments/models"
)

type AssignmentService interface {
	BulkAssign(ctx context.Context, req *models.BulkAssignRequest) (*models.BulkAssignResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
