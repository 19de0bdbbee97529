package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/domain/report"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
	"github.com/attendly/attendly-backend-go/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// maxShiftDuration bounds a plausible single shift. Pairs at or over this
// are treated as data errors (a missed check-out paired with a later day's
// check-out) and discarded.
const maxShiftDuration = 24 * time.Hour

type ReportServiceImpl struct {
	db        *database.DB
	events    attendance.EventRepository
	collector metrics.Collector
	loc       *time.Location

	// now frames the histogram's current month. Injected for tests.
	now func() time.Time
}

type Option func(*ReportServiceImpl)

// WithClock overrides the reference clock.
func WithClock(now func() time.Time) Option {
	return func(s *ReportServiceImpl) {
		s.now = now
	}
}

func NewReportService(
	db *database.DB,
	events attendance.EventRepository,
	collector metrics.Collector,
	loc *time.Location,
	opts ...Option,
) report.ReportService {
	s := &ReportServiceImpl{
		db:        db,
		events:    events,
		collector: collector,
		loc:       loc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type monthKey struct {
	year  int
	month time.Month
}

// userEvents keeps one user's event stream in insertion (timestamp) order.
type userEvents struct {
	label  string
	events []attendance.Event
}

// MonthlyWorkingHours implements report.ReportService. Every user's event
// log is folded by a two-state machine: a check-in arms the pair, the next
// check-out closes it. A second check-in before any check-out re-arms with
// the newer timestamp; a check-out with nothing armed is skipped. Closed
// pairs that are negative or implausibly long are discarded. Hours bucket
// by the check-in's local month.
func (s *ReportServiceImpl) MonthlyWorkingHours(ctx context.Context) ([]report.UserSeries, error) {
	events, err := s.events.FindAllByRange(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance events: %w", err)
	}

	grouped := groupByUser(events)

	series := make([]report.UserSeries, len(grouped))
	g, _ := errgroup.WithContext(ctx)
	for i, ue := range grouped {
		g.Go(func() error {
			series[i] = report.UserSeries{
				ID:   ue.label,
				Data: s.foldMonthly(ue.events),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return series, nil
}

// groupByUser splits a timestamp-ordered event stream per user, labeling
// each group with the user's name when the join provided one.
func groupByUser(events []attendance.Event) []userEvents {
	index := make(map[string]int)
	grouped := make([]userEvents, 0)
	for _, e := range events {
		i, ok := index[e.UserID]
		if !ok {
			label := e.UserID
			if e.UserName != nil && *e.UserName != "" {
				label = *e.UserName
			}
			i = len(grouped)
			index[e.UserID] = i
			grouped = append(grouped, userEvents{label: label})
		}
		grouped[i].events = append(grouped[i].events, e)
	}

	sort.Slice(grouped, func(i, j int) bool { return grouped[i].label < grouped[j].label })
	return grouped
}

func (s *ReportServiceImpl) foldMonthly(events []attendance.Event) []report.SeriesPoint {
	totals := make(map[monthKey]time.Duration)

	var pending *time.Time
	for _, e := range events {
		switch e.Kind {
		case attendance.KindCheckIn:
			ts := e.Timestamp
			pending = &ts
		case attendance.KindCheckOut:
			if pending == nil {
				continue
			}
			d := e.Timestamp.Sub(*pending)
			if d < 0 || d >= maxShiftDuration {
				s.collector.RecordInvalidPair()
				slog.Warn("discarding malformed check-in/check-out pair",
					"user_id", e.UserID,
					"duration", d,
				)
				pending = nil
				continue
			}
			local := pending.In(s.loc)
			totals[monthKey{year: local.Year(), month: local.Month()}] += d
			pending = nil
		}
	}

	keys := make([]monthKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	points := make([]report.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, report.SeriesPoint{
			X: k.month.String()[:3],
			Y: math.Round(totals[k].Hours()*100) / 100,
		})
	}
	return points
}

// CheckInDistribution implements report.ReportService. Only the current
// calendar month's check-ins are considered.
func (s *ReportServiceImpl) CheckInDistribution(ctx context.Context) (report.CheckInDistributionResponse, error) {
	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	events, err := s.events.FindAllByRange(ctx, &monthStart, &monthEnd)
	if err != nil {
		return report.CheckInDistributionResponse{}, fmt.Errorf("failed to load attendance events: %w", err)
	}

	counts := map[string]int{
		report.BucketEarly:   0,
		report.BucketMorning: 0,
		report.BucketMidday:  0,
		report.BucketLate:    0,
	}
	total := 0

	for _, e := range events {
		if e.Kind != attendance.KindCheckIn {
			continue
		}
		local := e.Timestamp.In(s.loc)
		counts[bucketFor(local)]++
		total++
	}

	return report.CheckInDistributionResponse{
		Buckets: []report.HistogramBucket{
			{Label: report.BucketEarly, Count: counts[report.BucketEarly]},
			{Label: report.BucketMorning, Count: counts[report.BucketMorning]},
			{Label: report.BucketMidday, Count: counts[report.BucketMidday]},
			{Label: report.BucketLate, Count: counts[report.BucketLate]},
		},
		Total: total,
	}, nil
}

// bucketFor maps a local check-in time to its histogram bucket. The late
// bucket absorbs everything outside the three windows, so a 5 AM check-in
// counts as late rather than early.
func bucketFor(local time.Time) string {
	minutes := local.Hour()*60 + local.Minute()
	switch {
	case minutes >= 7*60 && minutes < 9*60:
		return report.BucketEarly
	case minutes >= 9*60 && minutes < 11*60:
		return report.BucketMorning
	case minutes >= 11*60 && minutes < 13*60:
		return report.BucketMidday
	default:
		return report.BucketLate
	}
}
