package attendance

import (
	"time"
)

// EventKind discriminates the two event types in the append-only log.
type EventKind string

const (
	KindCheckIn  EventKind = "check-in"
	KindCheckOut EventKind = "check-out"
)

// Event is a single check-in or check-out record for one user. Events are
// immutable once written; the administrative correction path rewrites the
// timestamp of the unique (user, kind, day) event through the repository.
type Event struct {
	ID        string
	UserID    string
	Kind      EventKind
	Timestamp time.Time
	Note      *string
	CreatedAt time.Time

	// Join fields populated by cross-user queries
	UserName     *string
	EmployeeCode *string
}

// DayStatus classifies one calendar day of a user's attendance.
type DayStatus string

const (
	StatusPresent    DayStatus = "Present"
	StatusIncomplete DayStatus = "Incomplete"
	StatusAbsent     DayStatus = "Absent"
)

// DailyRecord is the derived per-day view. It is never persisted.
// Status is Present iff both timestamps exist and check-out is after
// check-in; Incomplete iff exactly one exists (or the pair is malformed);
// Absent iff the queried day has no events at all.
type DailyRecord struct {
	Date         time.Time
	CheckIn      *time.Time
	CheckOut     *time.Time
	WorkingHours *float64
	Status       DayStatus
}

// RangeSummary aggregates DailyRecords over a date range. TotalDays counts
// Present days only; AverageDailyHours is zero when TotalDays is zero.
type RangeSummary struct {
	TotalDays         int
	TotalHours        float64
	AverageDailyHours float64
}
