package assign_staff

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/assignments"
)

const (
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "список смен пуст или содержит некорректные ID"
	msgStaffNotFound      = "сотрудник не найден"
	msgShiftNotFound      = "смена не найдена"
	msgCenterMismatch     = "смена относится к другому центру"
	msgShiftNotActive     = "смена завершена или отменена"
	msgDuplicate          = "сотрудник уже назначен на смену"
)

type Handler struct {
	service AssignmentService
	logger  Logger
}

func NewHandler(service AssignmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/staff/{staffId}/assignments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(mux.Vars(r)["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /staff/{id}/assignments - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req AssignStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/assignments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.BulkAssign(r.Context(), req.ToServiceRequest(staffID))
	if err != nil {
		switch {
		case errors.Is(err, assignments.ErrInvalidInput):
			h.logger.Warn("POST /staff/{id}/assignments - Invalid input: staff_id=%d, %v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, assignments.ErrStaffNotFound):
			h.logger.Warn("POST /staff/{id}/assignments - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, assignments.ErrShiftNotFound):
			h.logger.Warn("POST /staff/{id}/assignments - Shift not found: staff_id=%d, %v", staffID, err)
			handlers.RespondNotFound(w, msgShiftNotFound)

		case errors.Is(err, assignments.ErrCenterMismatch):
			h.logger.Warn("POST /staff/{id}/assignments - Center mismatch: %v", err)
			handlers.RespondBadRequest(w, msgCenterMismatch)

		case errors.Is(err, assignments.ErrShiftNotActive):
			h.logger.Warn("POST /staff/{id}/assignments - Shift not active: %v", err)
			handlers.RespondConflict(w, msgShiftNotActive)

		case errors.Is(err, assignments.ErrDuplicateAssignment):
			h.logger.Warn("POST /staff/{id}/assignments - Duplicate: %v", err)
			handlers.RespondConflict(w, msgDuplicate)

		default:
			h.logger.Error("POST /staff/{id}/assignments - Failed to assign: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/{id}/assignments - Staff assigned: staff_id=%d, shifts=%d",
		staffID, len(result.Assignments))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
