package create_shifts

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/shifts/models"
)

type ShiftService interface {
	BulkCreate(ctx context.Context, req *models.BulkCreateRequest) (*models.BulkCreateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
