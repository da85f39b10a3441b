package cancel_shift

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/shifts"
)

const (
	msgInvalidShiftID = "некорректный ID смены"
	msgNotFound       = "смена не найдена"
	msgNotActive      = "смена уже завершена или отменена"
)

type Handler struct {
	service ShiftService
	logger  Logger
}

func NewHandler(service ShiftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/shifts/{shiftId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.ParseInt(mux.Vars(r)["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /shifts/{id}/cancel - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	if err := h.service.Cancel(r.Context(), shiftID); err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("PATCH /shifts/{id}/cancel - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shifts.ErrShiftNotActive):
			h.logger.Warn("PATCH /shifts/{id}/cancel - Shift not active: shift_id=%d", shiftID)
			handlers.RespondConflict(w, msgNotActive)

		default:
			h.logger.Error("PATCH /shifts/{id}/cancel - Failed to cancel shift: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /shifts/{id}/cancel - Shift cancelled successfully: shift_id=%d", shiftID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
