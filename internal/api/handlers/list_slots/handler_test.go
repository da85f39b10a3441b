package list_slots

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/service/slots"
	"github.com/m04kA/SMC-ScheduleService/internal/service/slots/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
)

type MockSlotService struct {
	ListFunc func(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error)
}

func (m *MockSlotService) List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	return m.ListFunc(ctx, req)
}

func TestHandle_ParsesFilters(t *testing.T) {
	var got *models.ListSlotsRequest
	svc := &MockSlotService{ListFunc: func(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
		got = req
		return &models.SlotListResponse{Slots: []models.SlotResponse{{ID: 1, Status: "active"}}}, nil
	}}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/slots?centerId=3&dateFrom=2025-11-10&dateTo=2025-11-16&status=full", nil)
	NewHandler(svc, logger.NewNop()).Handle(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), *got.CenterID)
	assert.Nil(t, got.Date)
	assert.Equal(t, "2025-11-10", got.DateFrom.Format("2006-01-02"))
	assert.Equal(t, "2025-11-16", got.DateTo.Format("2006-01-02"))
	assert.Equal(t, "full", *got.Status)
	assert.JSONEq(t, `{"slots":[{"id":1,"centerId":0,"shiftId":0,"date":"","startTime":"","endTime":"","capacity":0,"bookedCount":0,"availableSpots":0,"status":"active"}]}`, rec.Body.String())
}

func TestHandle_NoFilters(t *testing.T) {
	svc := &MockSlotService{ListFunc: func(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
		assert.Equal(t, &models.ListSlotsRequest{}, req)
		return &models.SlotListResponse{Slots: []models.SlotResponse{}}, nil
	}}

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"slots":[]}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		err        error
		wantStatus int
	}{
		{name: "bad center", url: "/api/v1/slots?centerId=abc", wantStatus: http.StatusBadRequest},
		{name: "bad date", url: "/api/v1/slots?date=11/10/2025", wantStatus: http.StatusBadRequest},
		{name: "invalid filter", url: "/api/v1/slots?status=booked", err: fmt.Errorf("%w: status", slots.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "internal", url: "/api/v1/slots", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockSlotService{ListFunc: func(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
				return nil, tt.err
			}}

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
