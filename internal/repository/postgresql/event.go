package postgresql

import (
	"context"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
)

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepositoryImpl{db: db}
}

// Insert implements attendance.EventRepository.
func (r *eventRepositoryImpl) Insert(ctx context.Context, newEvent attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (user_id, kind, ts, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, kind, ts, note, created_at
	`

	var created attendance.Event
	err := q.QueryRow(ctx, query,
		newEvent.UserID,
		newEvent.Kind,
		newEvent.Timestamp,
		newEvent.Note,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.Kind,
		&created.Timestamp,
		&created.Note,
		&created.CreatedAt,
	)
	if err != nil {
		return attendance.Event{}, err
	}

	return created, nil
}

// HasEventOnDay implements attendance.EventRepository.
func (r *eventRepositoryImpl) HasEventOnDay(ctx context.Context, userID string, kind attendance.EventKind, dayStart time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM attendance_events
			WHERE user_id = $1 AND kind = $2 AND ts >= $3 AND ts < $4
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, userID, kind, dayStart, dayStart.Add(24*time.Hour)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// FindByUserAndRange implements attendance.EventRepository.
func (r *eventRepositoryImpl) FindByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, ts, note, created_at
		FROM attendance_events
		WHERE user_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts ASC
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]attendance.Event, 0)
	for rows.Next() {
		var e attendance.Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Timestamp, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// FindAllByRange implements attendance.EventRepository.
func (r *eventRepositoryImpl) FindAllByRange(ctx context.Context, start, end *time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.user_id, e.kind, e.ts, e.note, e.created_at, u.name, u.employee_code
		FROM attendance_events e
		JOIN users u ON u.id = e.user_id
		WHERE ($1::timestamptz IS NULL OR e.ts >= $1)
		  AND ($2::timestamptz IS NULL OR e.ts < $2)
		ORDER BY e.ts ASC
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]attendance.Event, 0)
	for rows.Next() {
		var e attendance.Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Timestamp, &e.Note, &e.CreatedAt, &e.UserName, &e.EmployeeCode); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// ListByUser implements attendance.EventRepository.
func (r *eventRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, ts, note, created_at
		FROM attendance_events
		WHERE user_id = $1
		ORDER BY ts DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]attendance.Event, 0)
	for rows.Next() {
		var e attendance.Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Timestamp, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Correct implements attendance.EventRepository. The day's event of the
// given kind is rewritten in place; when the user never recorded one, a
// fresh event is inserted instead. Only the earliest event of the day is
// touched when duplicates slipped past the guard.
func (r *eventRepositoryImpl) Correct(ctx context.Context, userID string, kind attendance.EventKind, dayStart time.Time, newTimestamp time.Time) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE attendance_events
		SET ts = $1
		WHERE id = (
			SELECT id FROM attendance_events
			WHERE user_id = $2 AND kind = $3 AND ts >= $4 AND ts < $5
			ORDER BY ts ASC
			LIMIT 1
		)
	`

	tag, err := q.Exec(ctx, updateQuery, newTimestamp, userID, kind, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	insertQuery := `
		INSERT INTO attendance_events (user_id, kind, ts)
		VALUES ($1, $2, $3)
	`
	_, err = q.Exec(ctx, insertQuery, userID, kind, newTimestamp)
	return err
}
