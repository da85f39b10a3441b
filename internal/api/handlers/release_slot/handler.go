package release_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings"
)

const (
	msgInvalidSlotID    = "некорректный ID слота"
	msgNotFound         = "слот не найден"
	msgNothingToRelease = "в слоте нет бронирований"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/{slotId}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("POST /slots/{id}/release - Invalid slot ID: %q", mux.Vars(r)["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	resp, err := h.service.Release(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /slots/{id}/release - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotID)

		case errors.Is(err, bookings.ErrSlotNotFound):
			h.logger.Warn("POST /slots/{id}/release - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrNothingToRelease):
			h.logger.Warn("POST /slots/{id}/release - Nothing to release: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgNothingToRelease)

		default:
			h.logger.Error("POST /slots/{id}/release - Failed to release slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/release - Slot released: slot_id=%d, booked=%d/%d",
		slotID, resp.BookedCount, resp.Capacity)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
