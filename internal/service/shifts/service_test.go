package shifts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	shiftRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/shift"
	"github.com/m04kA/SMC-ScheduleService/internal/service/shifts/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var testDate = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

func newService(repo ShiftRepository, assignments, slots *MockCounter) *Service {
	if assignments == nil {
		assignments = count(0)
	}
	if slots == nil {
		slots = count(0)
	}
	return NewService(repo, assignments, slots, &MockTxManager{}, logger.NewNop())
}

func activeShift(id int64) *domain.Shift {
	return &domain.Shift{
		ID:        id,
		CenterID:  1,
		ShiftDate: testDate,
		StartTime: types.MustTimeString("09:00"),
		EndTime:   types.MustTimeString("18:00"),
		Status:    domain.ShiftStatusActive,
	}
}

func TestBulkCreate(t *testing.T) {
	var inserted []*domain.Shift
	repo := &MockShiftRepository{
		CreateBatchFunc: func(ctx context.Context, shifts []*domain.Shift) ([]*domain.Shift, error) {
			inserted = shifts
			// первая дата уже существовала
			created := make([]*domain.Shift, 0)
			for i, s := range shifts[1:] {
				copied := *s
				copied.ID = int64(i + 10)
				created = append(created, &copied)
			}
			return created, nil
		},
	}

	resp, err := newService(repo, nil, nil).BulkCreate(context.Background(), &models.BulkCreateRequest{
		CenterID:  1,
		Dates:     []time.Time{testDate, testDate.AddDate(0, 0, 1), testDate.AddDate(0, 0, 2), testDate.Add(3 * time.Hour)},
		StartTime: types.MustTimeString("09:00"),
		EndTime:   types.MustTimeString("18:00"),
	})

	require.NoError(t, err)
	require.Len(t, inserted, 3)
	for _, s := range inserted {
		assert.Equal(t, domain.ShiftStatusActive, s.Status)
		assert.Equal(t, int64(1), s.CenterID)
	}
	assert.Len(t, resp.Created, 2)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, "2025-11-11", resp.Created[0].Date)
	assert.Equal(t, "09:00", resp.Created[0].StartTime)
}

func TestBulkCreate_Validation(t *testing.T) {
	tooMany := make([]time.Time, domain.MaxShiftDatesPerRequest+1)
	for i := range tooMany {
		tooMany[i] = testDate.AddDate(0, 0, i)
	}

	tests := []struct {
		name string
		req  *models.BulkCreateRequest
	}{
		{"no center", &models.BulkCreateRequest{Dates: []time.Time{testDate}, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("10:00")}},
		{"no dates", &models.BulkCreateRequest{CenterID: 1, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("10:00")}},
		{"end before start", &models.BulkCreateRequest{CenterID: 1, Dates: []time.Time{testDate}, StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("09:00")}},
		{"end equals start", &models.BulkCreateRequest{CenterID: 1, Dates: []time.Time{testDate}, StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("10:00")}},
		{"missing time", &models.BulkCreateRequest{CenterID: 1, Dates: []time.Time{testDate}}},
		{"too many dates", &models.BulkCreateRequest{CenterID: 1, Dates: tooMany, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("10:00")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(&MockShiftRepository{}, nil, nil).BulkCreate(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestList(t *testing.T) {
	var got domain.ShiftsFilter
	repo := &MockShiftRepository{
		GetByFilterFunc: func(ctx context.Context, filter domain.ShiftsFilter) ([]*domain.Shift, error) {
			got = filter
			return []*domain.Shift{activeShift(1)}, nil
		},
	}
	svc := newService(repo, nil, nil)

	resp, err := svc.List(context.Background(), &models.ListRequest{CenterID: 1, Status: ptr.Ptr("active")})
	require.NoError(t, err)
	require.Len(t, resp.Shifts, 1)
	assert.Equal(t, int64(1), *got.CenterID)
	assert.Equal(t, domain.ShiftStatusActive, *got.Status)

	_, err = svc.List(context.Background(), &models.ListRequest{CenterID: 1, Status: ptr.Ptr("paused")})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	completed := activeShift(2)
	completed.Status = domain.ShiftStatusCompleted

	tests := []struct {
		name      string
		getByID   func(ctx context.Context, id int64) (*domain.Shift, error)
		cancelErr error
		wantErr   error
	}{
		{
			name:    "active",
			getByID: func(ctx context.Context, id int64) (*domain.Shift, error) { return activeShift(id), nil },
		},
		{
			name:    "not found",
			getByID: func(ctx context.Context, id int64) (*domain.Shift, error) { return nil, shiftRepo.ErrShiftNotFound },
			wantErr: ErrShiftNotFound,
		},
		{
			name:    "already completed",
			getByID: func(ctx context.Context, id int64) (*domain.Shift, error) { return completed, nil },
			wantErr: ErrShiftNotActive,
		},
		{
			name:      "completed concurrently",
			getByID:   func(ctx context.Context, id int64) (*domain.Shift, error) { return activeShift(id), nil },
			cancelErr: shiftRepo.ErrShiftNotActive,
			wantErr:   ErrShiftNotActive,
		},
		{
			name:      "db error",
			getByID:   func(ctx context.Context, id int64) (*domain.Shift, error) { return activeShift(id), nil },
			cancelErr: errors.New("broken pipe"),
			wantErr:   ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockShiftRepository{
				GetByIDFunc: tt.getByID,
				CancelFunc:  func(ctx context.Context, id int64) error { return tt.cancelErr },
			}

			err := newService(repo, nil, nil).Cancel(context.Background(), 2)

			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name        string
		assignments int
		slots       int
		deleteErr   error
		wantErr     error
		wantDeleted bool
	}{
		{name: "unreferenced", wantDeleted: true},
		{name: "has assignments", assignments: 2, wantErr: ErrShiftInUse},
		{name: "has slots", slots: 4, wantErr: ErrShiftInUse},
		{name: "referenced concurrently", deleteErr: shiftRepo.ErrShiftInUse, wantErr: ErrShiftInUse, wantDeleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			repo := &MockShiftRepository{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Shift, error) { return activeShift(id), nil },
				DeleteFunc: func(ctx context.Context, id int64) error {
					deleted = true
					return tt.deleteErr
				},
			}

			err := newService(repo, count(tt.assignments), count(tt.slots)).Delete(context.Background(), 3)

			assert.Equal(t, tt.wantDeleted, deleted)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &MockShiftRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Shift, error) { return nil, shiftRepo.ErrShiftNotFound },
	}

	err := newService(repo, nil, nil).Delete(context.Background(), 3)

	require.ErrorIs(t, err, ErrShiftNotFound)
}
