package attendance

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/pkg/metrics"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory attendance.EventRepository.
type fakeEventRepo struct {
	events []attendance.Event
}

func (f *fakeEventRepo) Insert(_ context.Context, newEvent attendance.Event) (attendance.Event, error) {
	newEvent.ID = uuid.NewString()
	newEvent.CreatedAt = newEvent.Timestamp
	f.events = append(f.events, newEvent)
	return newEvent, nil
}

func (f *fakeEventRepo) HasEventOnDay(_ context.Context, userID string, kind attendance.EventKind, dayStart time.Time) (bool, error) {
	dayEnd := dayStart.Add(24 * time.Hour)
	for _, e := range f.events {
		if e.UserID == userID && e.Kind == kind && !e.Timestamp.Before(dayStart) && e.Timestamp.Before(dayEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEventRepo) FindByUserAndRange(_ context.Context, userID string, start, end time.Time) ([]attendance.Event, error) {
	out := make([]attendance.Event, 0)
	for _, e := range f.events {
		if e.UserID == userID && !e.Timestamp.Before(start) && e.Timestamp.Before(end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeEventRepo) FindAllByRange(_ context.Context, start, end *time.Time) ([]attendance.Event, error) {
	out := make([]attendance.Event, 0)
	for _, e := range f.events {
		if start != nil && e.Timestamp.Before(*start) {
			continue
		}
		if end != nil && !e.Timestamp.Before(*end) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeEventRepo) ListByUser(_ context.Context, userID string) ([]attendance.Event, error) {
	out := make([]attendance.Event, 0)
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (f *fakeEventRepo) Correct(_ context.Context, userID string, kind attendance.EventKind, dayStart time.Time, newTimestamp time.Time) error {
	dayEnd := dayStart.Add(24 * time.Hour)
	best := -1
	for i, e := range f.events {
		if e.UserID != userID || e.Kind != kind || e.Timestamp.Before(dayStart) || !e.Timestamp.Before(dayEnd) {
			continue
		}
		if best == -1 || e.Timestamp.Before(f.events[best].Timestamp) {
			best = i
		}
	}
	if best >= 0 {
		f.events[best].Timestamp = newTimestamp
		return nil
	}
	f.events = append(f.events, attendance.Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Timestamp: newTimestamp,
	})
	return nil
}

// staleGuardRepo answers the duplicate guard from a snapshot taken before
// any insert landed, the way two requests racing past the existence check
// would both see an empty day.
type staleGuardRepo struct {
	fakeEventRepo
}

func (f *staleGuardRepo) HasEventOnDay(context.Context, string, attendance.EventKind, time.Time) (bool, error) {
	return false, nil
}

// countingCollector counts invalid-pair observations.
type countingCollector struct {
	metrics.NopCollector
	invalidPairs int
}

func (c *countingCollector) RecordInvalidPair() { c.invalidPairs++ }

const testUserID = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

// authedCtx builds a context carrying verified claims for testUserID.
func authedCtx(t *testing.T) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": testUserID})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(repo *fakeEventRepo, now time.Time, loc *time.Location) attendance.AttendanceService {
	return NewAttendanceService(nil, repo, metrics.NopCollector{}, loc, time.Monday,
		WithClock(func() time.Time { return now }))
}

func TestAttendanceService_CheckIn_Twice_Rejected(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	now := time.Date(2026, 7, 14, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now, time.UTC)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckOut_Twice_Rejected(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	now := time.Date(2026, 7, 14, 17, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now, time.UTC)

	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceService_CheckIn_RaceBothLand_DailyViewCollapses(t *testing.T) {
	ctx := authedCtx(t)
	repo := &staleGuardRepo{}
	loc := time.UTC
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, loc)

	svcAt := func(now time.Time) attendance.AttendanceService {
		return NewAttendanceService(nil, repo, metrics.NopCollector{}, loc, time.Monday,
			WithClock(func() time.Time { return now }))
	}

	// Without a store uniqueness constraint, both racing check-ins land.
	_, err := svcAt(day.Add(9 * time.Hour)).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = svcAt(day.Add(9*time.Hour+5*time.Minute)).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = svcAt(day.Add(17 * time.Hour)).CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.Len(t, repo.events, 3)

	// The daily view masks the duplicate: earliest check-in wins.
	status, err := svcAt(day.Add(18 * time.Hour)).GetDailyStatus(ctx, "2026-07-14")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, status.Status)
	require.NotNil(t, status.CheckIn)
	assert.Equal(t, day.Add(9*time.Hour), *status.CheckIn)
	require.NotNil(t, status.WorkingHours)
	assert.Equal(t, 8.0, *status.WorkingHours)
}

func TestAttendanceService_CheckIn_NextDayAllowed(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	day1 := time.Date(2026, 7, 14, 9, 0, 0, 0, time.UTC)

	_, err := newTestService(repo, day1, time.UTC).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	// Same wall-clock moment one day later passes the guard.
	_, err = newTestService(repo, day1.AddDate(0, 0, 1), time.UTC).CheckIn(ctx, attendance.CheckInRequest{})
	assert.NoError(t, err)
}

func TestAttendanceService_DailyStatus_Present(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	_, err := newTestService(repo, day.Add(9*time.Hour), time.UTC).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = newTestService(repo, day.Add(17*time.Hour+30*time.Minute), time.UTC).CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	status, err := newTestService(repo, day.Add(18*time.Hour), time.UTC).GetDailyStatus(ctx, "2026-07-14")
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, status.Status)
	require.NotNil(t, status.WorkingHours)
	assert.Equal(t, 8.5, *status.WorkingHours)
}

func TestAttendanceService_DailyStatus_AbsentByDefault(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	now := time.Date(2026, 7, 14, 12, 0, 0, 0, time.UTC)

	status, err := newTestService(repo, now, time.UTC).GetDailyStatus(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, "2026-07-14", status.Date)
	assert.Equal(t, attendance.StatusAbsent, status.Status)
}

func TestAttendanceService_RangeSummary(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	loc := time.UTC
	day1 := time.Date(2026, 7, 13, 0, 0, 0, 0, loc)

	for i, hours := range []float64{8, 6} {
		day := day1.AddDate(0, 0, i)
		_, err := newTestService(repo, day.Add(9*time.Hour), loc).CheckIn(ctx, attendance.CheckInRequest{})
		require.NoError(t, err)
		_, err = newTestService(repo, day.Add(time.Duration(9+int(hours))*time.Hour), loc).CheckOut(ctx, attendance.CheckOutRequest{})
		require.NoError(t, err)
	}

	svc := newTestService(repo, day1.AddDate(0, 0, 5), loc)
	summary, err := svc.GetRangeSummary(ctx, attendance.RangeQuery{
		StartDate: "2026-07-13",
		EndDate:   "2026-07-15",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalDays)
	assert.Equal(t, 14.0, summary.TotalHours)
	assert.Equal(t, 7.0, summary.AverageDailyHours)
	// The empty 2026-07-15 produces no series entry.
	assert.Len(t, summary.Days, 2)
}

func TestAttendanceService_RangeSummary_InvalidRange(t *testing.T) {
	ctx := authedCtx(t)
	svc := newTestService(&fakeEventRepo{}, time.Now(), time.UTC)

	_, err := svc.GetRangeSummary(ctx, attendance.RangeQuery{
		StartDate: "2026-07-15",
		EndDate:   "2026-07-13",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}

func TestAttendanceService_WeeklySummary_FramesCurrentWeek(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	loc := time.UTC

	// Wednesday 2026-07-15; the Monday-start week is Jul 13 through Jul 19.
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, loc)

	monday := time.Date(2026, 7, 13, 0, 0, 0, 0, loc)
	_, err := newTestService(repo, monday.Add(9*time.Hour), loc).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = newTestService(repo, monday.Add(17*time.Hour), loc).CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	// Previous week's events stay out of frame.
	prev := monday.AddDate(0, 0, -3)
	_, err = newTestService(repo, prev.Add(9*time.Hour), loc).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = newTestService(repo, prev.Add(17*time.Hour), loc).CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	summary, err := newTestService(repo, now, loc).GetWeeklySummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, "2026-07-13", summary.StartDate)
	assert.Equal(t, "2026-07-19", summary.EndDate)
	assert.Equal(t, 1, summary.TotalDays)
	assert.Equal(t, 8.0, summary.TotalHours)
	assert.Len(t, summary.Days, 1)
}

func TestAttendanceService_MonthlySummary_HoursAndMinutes(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	loc := time.UTC
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, loc)

	_, err := newTestService(repo, day.Add(9*time.Hour), loc).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = newTestService(repo, day.Add(16*time.Hour+45*time.Minute), loc).CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	summary, err := newTestService(repo, day.Add(20*time.Hour), loc).GetMonthlySummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, "2026-07", summary.Month)
	assert.Equal(t, 7, summary.TotalHours)
	assert.Equal(t, 45, summary.TotalMinutes)
	assert.Len(t, summary.Days, 1)
}

func TestAttendanceService_InvalidPair_MalformedChronologyOnly(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	loc := time.UTC
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, loc)

	collector := &countingCollector{}
	svc := NewAttendanceService(nil, repo, collector, loc, time.Monday,
		WithClock(func() time.Time { return day.Add(12 * time.Hour) }))

	// A lone check-in is an ordinary Incomplete day, not a malformed pair.
	repo.events = append(repo.events, attendance.Event{
		UserID:    testUserID,
		Kind:      attendance.KindCheckIn,
		Timestamp: day.Add(9 * time.Hour),
	})
	_, err := svc.GetDailyStatus(ctx, "2026-07-14")
	require.NoError(t, err)
	assert.Equal(t, 0, collector.invalidPairs)

	// A check-out before the check-in is malformed chronology.
	repo.events = append(repo.events, attendance.Event{
		UserID:    testUserID,
		Kind:      attendance.KindCheckOut,
		Timestamp: day.Add(8 * time.Hour),
	})
	_, err = svc.GetDailyStatus(ctx, "2026-07-14")
	require.NoError(t, err)
	assert.Equal(t, 1, collector.invalidPairs)

	// The range path observes the same malformed day.
	_, err = svc.GetRangeSummary(ctx, attendance.RangeQuery{
		StartDate: "2026-07-14",
		EndDate:   "2026-07-14",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, collector.invalidPairs)
}

func TestAttendanceService_MyLogs_NewestFirst(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	loc := time.UTC
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, loc)

	_, err := newTestService(repo, day.Add(9*time.Hour), loc).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = newTestService(repo, day.Add(17*time.Hour), loc).CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	logs, err := newTestService(repo, day.Add(18*time.Hour), loc).MyLogs(ctx)
	require.NoError(t, err)

	require.Len(t, logs, 2)
	assert.Equal(t, attendance.KindCheckOut, logs[0].Kind)
	assert.Equal(t, attendance.KindCheckIn, logs[1].Kind)
}

func TestAttendanceService_CorrectEvent_RewritesDay(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	loc := time.UTC
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, loc)

	_, err := newTestService(repo, day.Add(11*time.Hour), loc).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = newTestService(repo, day.Add(17*time.Hour), loc).CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	svc := newTestService(repo, day.Add(20*time.Hour), loc)
	err = svc.CorrectEvent(ctx, attendance.CorrectEventRequest{
		UserID:    testUserID,
		Kind:      string(attendance.KindCheckIn),
		Date:      "2026-07-14",
		Timestamp: "2026-07-14T09:00:00Z",
	})
	require.NoError(t, err)

	status, err := svc.GetDailyStatus(ctx, "2026-07-14")
	require.NoError(t, err)
	require.NotNil(t, status.WorkingHours)
	assert.Equal(t, 8.0, *status.WorkingHours)
}

func TestAttendanceService_CorrectEvent_InvalidKind(t *testing.T) {
	ctx := authedCtx(t)
	svc := newTestService(&fakeEventRepo{}, time.Now(), time.UTC)

	err := svc.CorrectEvent(ctx, attendance.CorrectEventRequest{
		UserID:    testUserID,
		Kind:      "lunch-break",
		Date:      "2026-07-14",
		Timestamp: "2026-07-14T09:00:00Z",
	})
	assert.Error(t, err)
}

func TestAttendanceService_ListAll_Bounded(t *testing.T) {
	ctx := authedCtx(t)
	repo := &fakeEventRepo{}
	loc := time.UTC
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, loc)

	_, err := newTestService(repo, day.Add(9*time.Hour), loc).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = newTestService(repo, day.AddDate(0, 0, 3).Add(9*time.Hour), loc).CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	svc := newTestService(repo, day.AddDate(0, 0, 5), loc)

	all, err := svc.ListAll(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	// The admin log reads newest first.
	assert.Equal(t, day.AddDate(0, 0, 3).Add(9*time.Hour), all[0].Timestamp)

	bounded, err := svc.ListAll(ctx, "2026-07-14", "2026-07-14")
	require.NoError(t, err)
	assert.Len(t, bounded, 1)
}
