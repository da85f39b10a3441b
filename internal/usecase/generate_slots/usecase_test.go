package generate_slots

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var testDate = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

func newShift(id, centerID int64, date time.Time, start, end string) *domain.Shift {
	return &domain.Shift{
		ID:        id,
		CenterID:  centerID,
		ShiftDate: date,
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
		Status:    domain.ShiftStatusActive,
	}
}

func newRequest(centers []int64, dates []time.Time, start, end string, duration int) *Request {
	return &Request{
		CenterIDs:       centers,
		Dates:           dates,
		WindowStart:     types.MustTimeString(start),
		WindowEnd:       types.MustTimeString(end),
		DurationMinutes: duration,
	}
}

func newUseCase(store *memStore, m *MockMetrics) *UseCase {
	return NewUseCase(store, store, store, m, logger.NewNop(), 0)
}

func TestExecute_EndToEndScenario(t *testing.T) {
	store := &memStore{
		shifts:      []*domain.Shift{newShift(1, 7, testDate, "09:00", "11:00")},
		technicians: map[int64]int{1: 2},
	}
	m := &MockMetrics{}

	resp, err := newUseCase(store, m).Execute(context.Background(),
		newRequest([]int64{7}, []time.Time{testDate}, "09:00", "11:00", 30))

	require.NoError(t, err)
	assert.Equal(t, 4, resp.Created)
	assert.Zero(t, resp.Skipped)
	assert.Empty(t, resp.Warnings)
	require.Len(t, resp.Slots, 4)

	wantTimes := [][2]string{{"09:00", "09:30"}, {"09:30", "10:00"}, {"10:00", "10:30"}, {"10:30", "11:00"}}
	for i, slot := range resp.Slots {
		assert.Equal(t, wantTimes[i][0], slot.StartTime.String())
		assert.Equal(t, wantTimes[i][1], slot.EndTime.String())
		assert.Equal(t, 2, slot.Capacity)
		assert.Zero(t, slot.BookedCount)
		assert.Equal(t, domain.SlotStatusActive, slot.Status)
		assert.Equal(t, int64(1), slot.ShiftID)
		assert.Equal(t, int64(7), slot.CenterID)
	}
	assert.Equal(t, 4, m.Created)
}

func TestExecute_Idempotent(t *testing.T) {
	store := &memStore{
		shifts:      []*domain.Shift{newShift(1, 7, testDate, "09:00", "11:00")},
		technicians: map[int64]int{1: 1},
	}
	uc := newUseCase(store, &MockMetrics{})

	first, err := uc.Execute(context.Background(), newRequest([]int64{7}, []time.Time{testDate}, "09:00", "11:00", 30))
	require.NoError(t, err)
	assert.Equal(t, 4, first.Created)

	second, err := uc.Execute(context.Background(), newRequest([]int64{7}, []time.Time{testDate}, "09:00", "11:00", 30))
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 4, second.Skipped)
	assert.Empty(t, second.Slots)
	assert.Len(t, store.slots, 4)
}

func TestExecute_DuplicateInputsAreCollapsed(t *testing.T) {
	store := &memStore{
		shifts:      []*domain.Shift{newShift(1, 7, testDate, "09:00", "10:00")},
		technicians: map[int64]int{1: 1},
	}

	resp, err := newUseCase(store, &MockMetrics{}).Execute(context.Background(),
		newRequest([]int64{7, 7}, []time.Time{testDate, testDate.Add(5 * time.Hour)}, "09:00", "10:00", 30))

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Zero(t, resp.Skipped)
}

func TestExecute_OverlappingShiftsKeepSeparateSlots(t *testing.T) {
	store := &memStore{
		shifts: []*domain.Shift{
			newShift(1, 7, testDate, "09:00", "11:00"),
			newShift(2, 7, testDate, "10:00", "12:00"),
		},
		technicians: map[int64]int{1: 1, 2: 3},
	}

	resp, err := newUseCase(store, &MockMetrics{}).Execute(context.Background(),
		newRequest([]int64{7}, []time.Time{testDate}, "09:00", "12:00", 60))

	require.NoError(t, err)
	require.Equal(t, 4, resp.Created)

	byShift := map[int64][]string{}
	for _, s := range resp.Slots {
		byShift[s.ShiftID] = append(byShift[s.ShiftID], s.StartTime.String())
		if s.ShiftID == 2 {
			assert.Equal(t, 3, s.Capacity)
		}
	}
	assert.Equal(t, []string{"09:00", "10:00"}, byShift[1])
	assert.Equal(t, []string{"10:00", "11:00"}, byShift[2])
}

func TestExecute_Warnings(t *testing.T) {
	cancelled := newShift(4, 4, testDate, "13:00", "14:00")
	cancelled.Status = domain.ShiftStatusCancelled

	store := &memStore{
		shifts: []*domain.Shift{
			newShift(1, 1, testDate, "09:00", "11:00"), // центр 1: смена вне окна
			newShift(2, 2, testDate, "13:00", "15:00"), // центр 2: без техников
			newShift(3, 3, testDate, "13:00", "14:00"), // центр 3: генерируется
			cancelled,                                  // центр 4: только отменённая смена
		},
		technicians: map[int64]int{1: 2, 3: 1, 4: 5},
	}
	m := &MockMetrics{}

	resp, err := newUseCase(store, m).Execute(context.Background(),
		newRequest([]int64{1, 2, 3, 4, 5}, []time.Time{testDate}, "13:00", "15:00", 30))

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)

	reasons := map[int64]string{}
	for _, w := range resp.Warnings {
		reasons[w.CenterID] = w.Reason
	}
	assert.Equal(t, map[int64]string{
		1: domain.WarningNoOverlappingShift,
		2: domain.WarningNoTechnicians,
		4: domain.WarningNoActiveShift,
		5: domain.WarningNoActiveShift,
	}, reasons)
	assert.Equal(t, 2, m.Warnings[domain.WarningNoActiveShift])

	for _, w := range resp.Warnings {
		if w.Reason == domain.WarningNoTechnicians {
			require.NotNil(t, w.ShiftID)
			assert.Equal(t, int64(2), *w.ShiftID)
		}
	}
}

func TestExecute_StepsOnlyInsideShift(t *testing.T) {
	// Окно 08:00-12:00, смена 09:15-11:10, шаг 30: подходят 09:30, 10:00, 10:30
	store := &memStore{
		shifts:      []*domain.Shift{newShift(1, 7, testDate, "09:15", "11:10")},
		technicians: map[int64]int{1: 1},
	}

	resp, err := newUseCase(store, &MockMetrics{}).Execute(context.Background(),
		newRequest([]int64{7}, []time.Time{testDate}, "08:00", "12:00", 30))

	require.NoError(t, err)
	starts := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime.String())
	}
	assert.Equal(t, []string{"09:30", "10:00", "10:30"}, starts)
}

func TestExecute_ContainmentRandomized(t *testing.T) {
	rnd := rand.New(rand.NewPCG(42, 2025))

	for i := 0; i < 300; i++ {
		shiftStart := rnd.IntN(20 * 60)
		shiftEnd := shiftStart + 1 + rnd.IntN(types.MinutesPerDay-1-shiftStart)
		windowStart := rnd.IntN(22 * 60)
		windowEnd := windowStart + 1 + rnd.IntN(types.MinutesPerDay-1-windowStart)
		duration := 1 + rnd.IntN(180)

		shift := &domain.Shift{
			ID:        1,
			CenterID:  1,
			ShiftDate: testDate,
			StartTime: mustMinutes(t, shiftStart),
			EndTime:   mustMinutes(t, shiftEnd),
			Status:    domain.ShiftStatusActive,
		}
		store := &memStore{shifts: []*domain.Shift{shift}, technicians: map[int64]int{1: 1}}

		req := &Request{
			CenterIDs:       []int64{1},
			Dates:           []time.Time{testDate},
			WindowStart:     mustMinutes(t, windowStart),
			WindowEnd:       mustMinutes(t, windowEnd),
			DurationMinutes: duration,
		}

		resp, err := newUseCase(store, &MockMetrics{}).Execute(context.Background(), req)
		require.NoError(t, err)

		for _, s := range resp.Slots {
			assert.LessOrEqual(t, shiftStart, s.StartTime.Minutes())
			assert.LessOrEqual(t, s.EndTime.Minutes(), shiftEnd)
			assert.Equal(t, duration, s.EndTime.Minutes()-s.StartTime.Minutes())
			assert.Zero(t, (s.StartTime.Minutes()-windowStart)%duration)
		}
	}
}

func TestExecute_ConcurrentInsertCountsAsSkipped(t *testing.T) {
	shifts := &MockShiftRepository{
		GetActiveByCenterAndDateFunc: func(ctx context.Context, centerID int64, date time.Time) ([]*domain.Shift, error) {
			return []*domain.Shift{newShift(1, centerID, date, "09:00", "10:00")}, nil
		},
	}
	assignments := &MockAssignmentRepository{
		CountTechniciansByShiftsFunc: func(ctx context.Context, shiftIDs []int64) (map[int64]int, error) {
			return map[int64]int{1: 1}, nil
		},
	}
	slots := &MockSlotRepository{
		CreateBatchFunc: func(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
			// вторую строку успел вставить параллельный запрос
			return slots[:1], nil
		},
	}

	uc := NewUseCase(shifts, assignments, slots, &MockMetrics{}, logger.NewNop(), 0)
	resp, err := uc.Execute(context.Background(), newRequest([]int64{1}, []time.Time{testDate}, "09:00", "10:00", 30))

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
}

func TestExecute_RepositoryError(t *testing.T) {
	shifts := &MockShiftRepository{
		GetActiveByCenterAndDateFunc: func(ctx context.Context, centerID int64, date time.Time) ([]*domain.Shift, error) {
			return nil, errors.New("connection refused")
		},
	}

	uc := NewUseCase(shifts, &MockAssignmentRepository{}, &MockSlotRepository{}, &MockMetrics{}, logger.NewNop(), 0)
	_, err := uc.Execute(context.Background(), newRequest([]int64{1}, []time.Time{testDate}, "09:00", "10:00", 30))

	require.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Validation(t *testing.T) {
	manyCenters := make([]int64, 10)
	manyDates := make([]time.Time, 10)
	for i := range manyCenters {
		manyCenters[i] = int64(i + 1)
		manyDates[i] = testDate.AddDate(0, 0, i)
	}

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "no centers",
			req:     newRequest(nil, []time.Time{testDate}, "09:00", "10:00", 30),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no dates",
			req:     newRequest([]int64{1}, nil, "09:00", "10:00", 30),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "end equals start",
			req:     newRequest([]int64{1}, []time.Time{testDate}, "10:00", "10:00", 30),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "end before start",
			req:     newRequest([]int64{1}, []time.Time{testDate}, "11:00", "10:00", 30),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero duration",
			req:     newRequest([]int64{1}, []time.Time{testDate}, "09:00", "10:00", 0),
			wantErr: ErrInvalidInput,
		},
		{
			name: "missing window",
			req: &Request{
				CenterIDs:       []int64{1},
				Dates:           []time.Time{testDate},
				DurationMinutes: 30,
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "too many slots",
			req:     newRequest(manyCenters, manyDates, "09:00", "18:00", 10),
			wantErr: ErrTooManySlots,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Репозитории без реализаций: любое обращение к ним - паника
			uc := NewUseCase(&MockShiftRepository{}, &MockAssignmentRepository{}, &MockSlotRepository{},
				&MockMetrics{}, logger.NewNop(), 0)

			_, err := uc.Execute(context.Background(), tt.req)

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_OversizedRequestRejectedBeforeRepositories(t *testing.T) {
	centers := make([]int64, 120_000)
	for i := range centers {
		centers[i] = int64(i + 1)
	}

	calls := 0
	shifts := &MockShiftRepository{
		GetActiveByCenterAndDateFunc: func(ctx context.Context, centerID int64, date time.Time) ([]*domain.Shift, error) {
			calls++
			return nil, nil
		},
	}
	slots := &MockSlotRepository{
		GetByFilterFunc: func(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
			calls++
			return nil, nil
		},
	}
	uc := NewUseCase(shifts, &MockAssignmentRepository{}, slots, &MockMetrics{}, logger.NewNop(), 0)

	start := time.Now()
	_, err := uc.Execute(context.Background(), newRequest(centers, []time.Time{testDate}, "09:00", "10:00", 60))

	require.ErrorIs(t, err, ErrTooManySlots)
	assert.Zero(t, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExecute_LimitCountsRepeatedCenters(t *testing.T) {
	// 3 шага × 2 центра (один повторён) × 1 дата = 6 > 5
	uc := NewUseCase(&MockShiftRepository{}, &MockAssignmentRepository{}, &MockSlotRepository{},
		&MockMetrics{}, logger.NewNop(), 5)

	_, err := uc.Execute(context.Background(),
		newRequest([]int64{7, 7}, []time.Time{testDate}, "09:00", "10:30", 30))

	require.ErrorIs(t, err, ErrTooManySlots)
}

func TestEstimateSlots_RoundsUp(t *testing.T) {
	req := newRequest([]int64{1, 2}, []time.Time{testDate, testDate.AddDate(0, 0, 1), testDate.AddDate(0, 0, 2)}, "09:00", "09:31", 30)

	assert.Equal(t, 2*2*3, estimateSlots(req))
	assert.NoError(t, validateLimit(req, 12))
	assert.ErrorIs(t, validateLimit(req, 11), ErrTooManySlots)
}

func mustMinutes(t *testing.T, m int) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromMinutes(m)
	require.NoError(t, err)
	return ts
}
