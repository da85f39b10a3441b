package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	slotModels "github.com/m04kA/SMC-ScheduleService/internal/service/slots/models"
	generateSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	CenterIDs       []int64  `json:"centerIds"`
	Dates           []string `json:"dates"`       // ["2025-11-10", "2025-11-11"]
	WindowStart     string   `json:"windowStart"` // "09:00"
	WindowEnd       string   `json:"windowEnd"`   // "18:00"
	DurationMinutes int      `json:"durationMinutes"`
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	Created  int                       `json:"created"`
	Skipped  int                       `json:"skipped"`
	Slots    []slotModels.SlotResponse `json:"slots"`
	Warnings []WarningResponse         `json:"warnings"`
}

// WarningResponse предупреждение генерации
type WarningResponse struct {
	CenterID int64  `json:"centerId"`
	Date     string `json:"date"`
	ShiftID  *int64 `json:"shiftId,omitempty"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest() (*generateSlots.Request, error) {
	dates := make([]time.Time, 0, len(r.Dates))
	for _, s := range r.Dates {
		date, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", s, err)
		}
		dates = append(dates, date)
	}

	windowStart, err := types.NewTimeStringFromString(r.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("windowStart: %w", err)
	}

	windowEnd, err := types.NewTimeStringFromString(r.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("windowEnd: %w", err)
	}

	return &generateSlots.Request{
		CenterIDs:       r.CenterIDs,
		Dates:           dates,
		WindowStart:     windowStart,
		WindowEnd:       windowEnd,
		DurationMinutes: r.DurationMinutes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	warnings := make([]WarningResponse, 0, len(resp.Warnings))
	for _, w := range resp.Warnings {
		warnings = append(warnings, WarningResponse{
			CenterID: w.CenterID,
			Date:     w.Date.Format(domain.DateFormat),
			ShiftID:  w.ShiftID,
			Reason:   w.Reason,
			Message:  w.Message,
		})
	}

	return &GenerateSlotsResponse{
		Created:  resp.Created,
		Skipped:  resp.Skipped,
		Slots:    slotModels.FromDomainSlotList(resp.Slots).Slots,
		Warnings: warnings,
	}
}
