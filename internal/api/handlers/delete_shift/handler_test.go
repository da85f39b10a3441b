package delete_shift

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ScheduleService/internal/service/shifts"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
)

type MockShiftService struct {
	DeleteFunc func(ctx context.Context, id int64) error
}

func (m *MockShiftService) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func newRequest(id string) *http.Request {
	r := httptest.NewRequest(http.MethodDelete, "/api/v1/shifts/"+id, nil)
	return mux.SetURLVars(r, map[string]string{"shiftId": id})
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{name: "ok", id: "7", wantStatus: http.StatusNoContent},
		{name: "bad id", id: "seven", wantStatus: http.StatusBadRequest},
		{name: "not found", id: "7", err: shifts.ErrShiftNotFound, wantStatus: http.StatusNotFound},
		{name: "conflict", id: "7", err: shifts.ErrShiftInUse, wantStatus: http.StatusConflict},
		{name: "internal", id: "7", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			svc := &MockShiftService{DeleteFunc: func(ctx context.Context, id int64) error {
				gotID = id
				return tt.err
			}}

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(tt.id))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusBadRequest {
				assert.Equal(t, int64(7), gotID)
			}
		})
	}
}
