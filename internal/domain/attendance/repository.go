package attendance

import (
	"context"
	"time"
)

// EventRepository is the event store adapter. The aggregation engine never
// mutates events through any other path; the store is append-only except
// for the administrative correction upsert.
type EventRepository interface {
	// Insert appends a new event
	Insert(ctx context.Context, newEvent Event) (Event, error)

	// HasEventOnDay reports whether an event of the given kind exists for
	// the user within [dayStart, dayStart+24h). Used by the duplicate-event
	// guard; this is an existence check, not a serialized transaction.
	HasEventOnDay(ctx context.Context, userID string, kind EventKind, dayStart time.Time) (bool, error)

	// FindByUserAndRange returns the user's events in [start, end),
	// ascending by timestamp. Empty slice when none.
	FindByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]Event, error)

	// FindAllByRange returns events for all users ascending by timestamp,
	// with user name and employee code joined. A nil bound is unbounded.
	FindAllByRange(ctx context.Context, start, end *time.Time) ([]Event, error)

	// ListByUser returns the user's full history, newest first.
	ListByUser(ctx context.Context, userID string) ([]Event, error)

	// Correct rewrites the timestamp of the unique (user, kind, day) event,
	// creating the event when absent.
	Correct(ctx context.Context, userID string, kind EventKind, dayStart time.Time, newTimestamp time.Time) error
}
