package delete_shift

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
	msgInUse          = "на смену есть назначения или слоты, удаление невозможно"
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

// Handle DELETE /api/v1/shifts/{shiftId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.ParseInt(mux.Vars(r)["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /shifts/{id} - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	if err := h.service.Delete(r.Context(), shiftID); err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("DELETE /shifts/{id} - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shifts.ErrShiftInUse):
			h.logger.Warn("DELETE /shifts/{id} - Shift in use: shift_id=%d", shiftID)
			handlers.RespondConflict(w, msgInUse)

		default:
			h.logger.Error("DELETE /shifts/{id} - Failed to delete shift: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /shifts/{id} - Shift deleted successfully: shift_id=%d", shiftID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
