package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
	"github.com/attendly/attendly-backend-go/internal/pkg/metrics"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	db           *database.DB
	events       attendance.EventRepository
	collector    metrics.Collector
	loc          *time.Location
	weekStartsOn time.Weekday

	// now is the reference clock for "today", "this week" and "this
	// month" framing. Injected so summaries are reproducible in tests.
	now func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock overrides the reference clock.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) {
		s.now = now
	}
}

func NewAttendanceService(
	db *database.DB,
	events attendance.EventRepository,
	collector metrics.Collector,
	loc *time.Location,
	weekStartsOn time.Weekday,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		db:           db,
		events:       events,
		collector:    collector,
		loc:          loc,
		weekStartsOn: weekStartsOn,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// userIDFromClaims extracts the authenticated user's ID from the JWT claims.
func userIDFromClaims(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	userID, err := userIDFromClaims(ctx)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	return s.record(ctx, userID, attendance.KindCheckIn, req.Note)
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	userID, err := userIDFromClaims(ctx)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	return s.record(ctx, userID, attendance.KindCheckOut, req.Note)
}

// record appends one event after the duplicate guard: at most one event of
// each kind per user per local calendar day. The guard is an existence
// check, not a serialized transaction; the read side tolerates the rare
// concurrent double insert.
func (s *AttendanceServiceImpl) record(ctx context.Context, userID string, kind attendance.EventKind, note *string) (attendance.EventResponse, error) {
	now := s.now().In(s.loc)
	day := dayStart(now, s.loc)

	exists, err := s.events.HasEventOnDay(ctx, userID, kind, day)
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to check today's events: %w", err)
	}
	if exists {
		s.collector.RecordDuplicateRejected(string(kind))
		if kind == attendance.KindCheckIn {
			return attendance.EventResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.EventResponse{}, attendance.ErrAlreadyCheckedOut
	}

	created, err := s.events.Insert(ctx, attendance.Event{
		UserID:    userID,
		Kind:      kind,
		Timestamp: now,
		Note:      note,
	})
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to insert attendance event: %w", err)
	}

	s.collector.RecordEvent(string(kind))
	return attendance.ToEventResponse(created), nil
}

// MyLogs implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MyLogs(ctx context.Context) ([]attendance.EventResponse, error) {
	userID, err := userIDFromClaims(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}

	return attendance.ToEventResponses(events), nil
}

// GetDailyStatus implements attendance.AttendanceService. An empty date
// means today.
func (s *AttendanceServiceImpl) GetDailyStatus(ctx context.Context, date string) (attendance.DailyRecordResponse, error) {
	userID, err := userIDFromClaims(ctx)
	if err != nil {
		return attendance.DailyRecordResponse{}, err
	}

	var day time.Time
	if date == "" {
		day = dayStart(s.now(), s.loc)
	} else {
		parsed, err := time.ParseInLocation("2006-01-02", date, s.loc)
		if err != nil {
			return attendance.DailyRecordResponse{}, attendance.ErrInvalidRange
		}
		day = parsed
	}

	events, err := s.events.FindByUserAndRange(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return attendance.DailyRecordResponse{}, fmt.Errorf("failed to load day events: %w", err)
	}

	record := pairDay(day, events)
	s.observeInvalidPairs(userID, []attendance.DailyRecord{record})
	return attendance.ToDailyRecordResponse(record), nil
}

// GetRangeSummary implements attendance.AttendanceService. The range is
// inclusive of both dates.
func (s *AttendanceServiceImpl) GetRangeSummary(ctx context.Context, query attendance.RangeQuery) (attendance.RangeSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.RangeSummaryResponse{}, err
	}

	userID, err := userIDFromClaims(ctx)
	if err != nil {
		return attendance.RangeSummaryResponse{}, err
	}

	start, err := time.ParseInLocation("2006-01-02", query.StartDate, s.loc)
	if err != nil {
		return attendance.RangeSummaryResponse{}, attendance.ErrInvalidRange
	}
	endDay, err := time.ParseInLocation("2006-01-02", query.EndDate, s.loc)
	if err != nil {
		return attendance.RangeSummaryResponse{}, attendance.ErrInvalidRange
	}
	if endDay.Before(start) {
		return attendance.RangeSummaryResponse{}, attendance.ErrInvalidRange
	}
	end := endDay.AddDate(0, 0, 1)

	return s.summarizeRange(ctx, userID, start, end)
}

// GetWeeklySummary implements attendance.AttendanceService. The week is
// framed from the reference clock and the configured week start.
func (s *AttendanceServiceImpl) GetWeeklySummary(ctx context.Context) (attendance.RangeSummaryResponse, error) {
	userID, err := userIDFromClaims(ctx)
	if err != nil {
		return attendance.RangeSummaryResponse{}, err
	}

	today := dayStart(s.now(), s.loc)
	offset := (int(today.Weekday()) - int(s.weekStartsOn) + 7) % 7
	start := today.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 7)

	return s.summarizeRange(ctx, userID, start, end)
}

// GetMonthlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context) (attendance.MonthlySummaryResponse, error) {
	userID, err := userIDFromClaims(ctx)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 1, 0)

	events, err := s.events.FindByUserAndRange(ctx, userID, start, end)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, fmt.Errorf("failed to load month events: %w", err)
	}

	records := buildDailyRecords(events, s.loc, start, end)
	s.observeInvalidPairs(userID, records)
	summary := summarize(records)

	totalMinutes := int(math.Round(summary.TotalHours * 60))

	days := make([]attendance.DailyRecordResponse, 0, len(records))
	for _, r := range records {
		days = append(days, attendance.ToDailyRecordResponse(r))
	}

	return attendance.MonthlySummaryResponse{
		Month:        start.Format("2006-01"),
		TotalHours:   totalMinutes / 60,
		TotalMinutes: totalMinutes % 60,
		Days:         days,
	}, nil
}

// observeInvalidPairs reports days where both timestamps exist but the
// check-out does not follow the check-in. One-sided days are ordinary
// Incomplete days and are not counted.
func (s *AttendanceServiceImpl) observeInvalidPairs(userID string, records []attendance.DailyRecord) {
	for _, r := range records {
		if r.CheckIn == nil || r.CheckOut == nil || r.Status != attendance.StatusIncomplete {
			continue
		}
		s.collector.RecordInvalidPair()
		slog.Warn("discarding malformed check-in/check-out pair",
			"user_id", userID,
			"date", r.Date.Format("2006-01-02"),
		)
	}
}

func (s *AttendanceServiceImpl) summarizeRange(ctx context.Context, userID string, start, end time.Time) (attendance.RangeSummaryResponse, error) {
	events, err := s.events.FindByUserAndRange(ctx, userID, start, end)
	if err != nil {
		return attendance.RangeSummaryResponse{}, fmt.Errorf("failed to load range events: %w", err)
	}

	records := buildDailyRecords(events, s.loc, start, end)
	s.observeInvalidPairs(userID, records)
	summary := summarize(records)

	days := make([]attendance.DailyRecordResponse, 0, len(records))
	for _, r := range records {
		days = append(days, attendance.ToDailyRecordResponse(r))
	}

	return attendance.RangeSummaryResponse{
		StartDate:         start.Format("2006-01-02"),
		EndDate:           end.AddDate(0, 0, -1).Format("2006-01-02"),
		TotalDays:         summary.TotalDays,
		TotalHours:        summary.TotalHours,
		AverageDailyHours: summary.AverageDailyHours,
		Days:              days,
	}, nil
}

// ListAll implements attendance.AttendanceService. Empty bounds are
// unbounded; the log reads newest first.
func (s *AttendanceServiceImpl) ListAll(ctx context.Context, startDate, endDate string) ([]attendance.EventResponse, error) {
	var start, end *time.Time

	if startDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", startDate, s.loc)
		if err != nil {
			return nil, attendance.ErrInvalidRange
		}
		start = &parsed
	}
	if endDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", endDate, s.loc)
		if err != nil {
			return nil, attendance.ErrInvalidRange
		}
		exclusive := parsed.AddDate(0, 0, 1)
		end = &exclusive
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, attendance.ErrInvalidRange
	}

	events, err := s.events.FindAllByRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}

	responses := attendance.ToEventResponses(events)
	slices.Reverse(responses)
	return responses, nil
}

// CorrectEvent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CorrectEvent(ctx context.Context, req attendance.CorrectEventRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return attendance.ErrInvalidRange
	}
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return attendance.ErrInvalidRange
	}

	if err := s.events.Correct(ctx, req.UserID, attendance.EventKind(req.Kind), day, ts.In(s.loc)); err != nil {
		return fmt.Errorf("failed to correct attendance event: %w", err)
	}

	s.collector.RecordCorrection()
	return nil
}
