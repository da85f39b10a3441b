package create_shifts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/shifts"
)

const (
	msgInvalidCenterID    = "некорректный ID центра"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты (YYYY-MM-DD) или времени (HH:MM)"
	msgInvalidInput       = "некорректные параметры смен"
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

// Handle POST /api/v1/centers/{centerId}/shifts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	centerID, err := strconv.ParseInt(mux.Vars(r)["centerId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /centers/{id}/shifts - Invalid center ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCenterID)
		return
	}

	var req CreateShiftsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /centers/{id}/shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(centerID)
	if err != nil {
		h.logger.Warn("POST /centers/{id}/shifts - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.service.BulkCreate(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("POST /centers/{id}/shifts - Invalid input: center_id=%d, %v", centerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput+": "+err.Error())

		default:
			h.logger.Error("POST /centers/{id}/shifts - Failed to create shifts: center_id=%d, error=%v", centerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /centers/{id}/shifts - Shifts created: center_id=%d, created=%d, skipped=%d",
		centerID, len(result.Created), result.Skipped)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
