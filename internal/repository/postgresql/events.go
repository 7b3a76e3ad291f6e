package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/database"
)

// eventRepository is the current-generation backing: an append-only
// attendance_events table plus the attendance_day_summaries projection.
type eventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepository{db: db}
}

// WithinDay implements attendance.EventRepository.
func (r *eventRepository) WithinDay(ctx context.Context, employeeID string, day time.Time, fn func(ctx context.Context) error) error {
	return withDayLock(ctx, r.db, employeeID, day, fn)
}

// AppendEvent implements attendance.EventRepository.
func (r *eventRepository) AppendEvent(ctx context.Context, event attendance.ClockEvent) (attendance.ClockEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (id, employee_id, date, ts, action, session_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING recorded_at
	`

	err := q.QueryRow(ctx, query,
		event.ID,
		event.EmployeeID,
		event.Date,
		event.Timestamp,
		string(event.Action),
		event.SessionSeconds,
	).Scan(&event.RecordedAt)
	if err != nil {
		return attendance.ClockEvent{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	return event, nil
}

const eventColumns = `id, employee_id, date, ts, action, session_seconds, recorded_at`

func scanEvent(row pgx.Row) (attendance.ClockEvent, error) {
	var ev attendance.ClockEvent
	var action string
	err := row.Scan(&ev.ID, &ev.EmployeeID, &ev.Date, &ev.Timestamp, &action, &ev.SessionSeconds, &ev.RecordedAt)
	if err != nil {
		return attendance.ClockEvent{}, err
	}
	ev.Action = attendance.Action(action)
	return ev, nil
}

// EventsForDay implements attendance.EventRepository.
func (r *eventRepository) EventsForDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.ClockEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_id = $1
		  AND date = $2
		ORDER BY ts, recorded_at
	`

	rows, err := q.Query(ctx, query, employeeID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for day: %w", err)
	}
	defer rows.Close()

	var events []attendance.ClockEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// LatestEventForDay implements attendance.EventRepository.
func (r *eventRepository) LatestEventForDay(ctx context.Context, employeeID string, day time.Time) (*attendance.ClockEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_id = $1
		  AND date = $2
		ORDER BY ts DESC, recorded_at DESC
		LIMIT 1
	`

	ev, err := scanEvent(q.QueryRow(ctx, query, employeeID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest event for day: %w", err)
	}

	return &ev, nil
}

// EventsForRange implements attendance.EventRepository.
func (r *eventRepository) EventsForRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ClockEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date, ts, recorded_at
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for range: %w", err)
	}
	defer rows.Close()

	var events []attendance.ClockEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// SaveDaySummary implements attendance.EventRepository.
func (r *eventRepository) SaveDaySummary(ctx context.Context, summary attendance.DaySummary) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_day_summaries (employee_id, date, first_in, last_out, total_seconds, session_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (employee_id, date)
		DO UPDATE SET
			first_in = EXCLUDED.first_in,
			last_out = EXCLUDED.last_out,
			total_seconds = EXCLUDED.total_seconds,
			session_count = EXCLUDED.session_count,
			updated_at = now()
	`

	if _, err := q.Exec(ctx, query,
		summary.EmployeeID,
		summary.Date,
		summary.FirstIn,
		summary.LastOut,
		summary.TotalSeconds,
		summary.SessionCount,
	); err != nil {
		return fmt.Errorf("failed to save day summary: %w", err)
	}

	return nil
}
