package attendance

import (
	"math"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
)

// round2 rounds hours to two decimals for presentation.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// dayStart truncates t to local midnight in loc.
func dayStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// pairDay derives one day's record from that day's events: the earliest
// check-in and the latest check-out. Duplicates between them are ignored,
// so a stray double event never corrupts the day. Working hours exist only
// when the pair is complete and the check-out follows the check-in.
func pairDay(date time.Time, events []attendance.Event) attendance.DailyRecord {
	record := attendance.DailyRecord{
		Date:   date,
		Status: attendance.StatusAbsent,
	}
	if len(events) == 0 {
		return record
	}

	for _, e := range events {
		switch e.Kind {
		case attendance.KindCheckIn:
			if record.CheckIn == nil || e.Timestamp.Before(*record.CheckIn) {
				ts := e.Timestamp
				record.CheckIn = &ts
			}
		case attendance.KindCheckOut:
			if record.CheckOut == nil || e.Timestamp.After(*record.CheckOut) {
				ts := e.Timestamp
				record.CheckOut = &ts
			}
		}
	}

	if record.CheckIn != nil && record.CheckOut != nil && record.CheckOut.After(*record.CheckIn) {
		hours := round2(record.CheckOut.Sub(*record.CheckIn).Hours())
		record.WorkingHours = &hours
		record.Status = attendance.StatusPresent
		return record
	}

	record.Status = attendance.StatusIncomplete
	return record
}

// buildDailyRecords pairs a user's events over [start, end) into one record
// per calendar day that has at least one event; empty days produce no
// entry. Events are bucketed by their local calendar date in loc; start
// must be a local midnight.
func buildDailyRecords(events []attendance.Event, loc *time.Location, start, end time.Time) []attendance.DailyRecord {
	byDay := make(map[string][]attendance.Event)
	for _, e := range events {
		key := e.Timestamp.In(loc).Format("2006-01-02")
		byDay[key] = append(byDay[key], e)
	}

	records := make([]attendance.DailyRecord, 0, len(byDay))
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		dayEvents, ok := byDay[day.Format("2006-01-02")]
		if !ok {
			continue
		}
		records = append(records, pairDay(day, dayEvents))
	}
	return records
}

// summarize totals a set of daily records. Only Present days count toward
// the day total and the average.
func summarize(records []attendance.DailyRecord) attendance.RangeSummary {
	var summary attendance.RangeSummary
	for _, r := range records {
		if r.Status != attendance.StatusPresent || r.WorkingHours == nil {
			continue
		}
		summary.TotalDays++
		summary.TotalHours += *r.WorkingHours
	}
	summary.TotalHours = round2(summary.TotalHours)
	if summary.TotalDays > 0 {
		summary.AverageDailyHours = round2(summary.TotalHours / float64(summary.TotalDays))
	}
	return summary
}
