package create_shifts

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/shifts/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// CreateShiftsRequest HTTP request model
type CreateShiftsRequest struct {
	Dates     []string `json:"dates"`     // ["2025-11-10", "2025-11-11"]
	StartTime string   `json:"startTime"` // "09:00"
	EndTime   string   `json:"endTime"`   // "18:00"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateShiftsRequest) ToServiceRequest(centerID int64) (*models.BulkCreateRequest, error) {
	dates := make([]time.Time, 0, len(r.Dates))
	for _, s := range r.Dates {
		date, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", s, err)
		}
		dates = append(dates, date)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &models.BulkCreateRequest{
		CenterID:  centerID,
		Dates:     dates,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}
