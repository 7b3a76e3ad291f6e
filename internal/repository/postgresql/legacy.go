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

// legacyRepository serves deployments still on the pre-migration
// attendance_days table: one row per (employee, day) carrying first
// clock-in, latest clock-in, clock-out and accumulated worked seconds.
// It answers the same contract as the event store by synthesizing an
// alternating event sequence from those aggregates. Individual sessions
// within a day are not recoverable from this layout.
type legacyRepository struct {
	db *database.DB
}

func NewLegacyRepository(db *database.DB) attendance.EventRepository {
	return &legacyRepository{db: db}
}

type legacyRow struct {
	EmployeeID  string
	Date        time.Time
	ClockIn     *time.Time
	LastIn      *time.Time
	ClockOut    *time.Time
	WorkSeconds int64
}

// events synthesizes a valid alternating sequence from the row aggregates.
func (r legacyRow) events() []attendance.ClockEvent {
	if r.ClockIn == nil {
		return nil
	}

	base := attendance.ClockEvent{
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		RecordedAt: *r.ClockIn,
	}
	synth := func(n int, action attendance.Action, ts time.Time, secs *int64) attendance.ClockEvent {
		ev := base
		ev.ID = fmt.Sprintf("legacy:%s:%s:%d", r.EmployeeID, r.Date.Format("2006-01-02"), n)
		ev.Action = action
		ev.Timestamp = ts
		ev.SessionSeconds = secs
		return ev
	}

	if r.ClockOut != nil {
		secs := r.WorkSeconds
		return []attendance.ClockEvent{
			synth(0, attendance.ActionIn, *r.ClockIn, nil),
			synth(1, attendance.ActionOut, *r.ClockOut, &secs),
		}
	}

	// Day still open. When earlier sessions were already accumulated, the
	// reopen point (last_in) stands in for their close time.
	if r.WorkSeconds > 0 && r.LastIn != nil && !r.LastIn.Equal(*r.ClockIn) {
		secs := r.WorkSeconds
		return []attendance.ClockEvent{
			synth(0, attendance.ActionIn, *r.ClockIn, nil),
			synth(1, attendance.ActionOut, *r.LastIn, &secs),
			synth(2, attendance.ActionIn, *r.LastIn, nil),
		}
	}

	return []attendance.ClockEvent{synth(0, attendance.ActionIn, *r.ClockIn, nil)}
}

const legacyColumns = `employee_id, date, clock_in, last_in, clock_out, work_seconds`

func (r *legacyRepository) rowForDay(ctx context.Context, employeeID string, day time.Time) (*legacyRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + legacyColumns + `
		FROM attendance_days
		WHERE employee_id = $1
		  AND date = $2
	`

	var row legacyRow
	err := q.QueryRow(ctx, query, employeeID, day).Scan(
		&row.EmployeeID, &row.Date, &row.ClockIn, &row.LastIn, &row.ClockOut, &row.WorkSeconds,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance day row: %w", err)
	}

	return &row, nil
}

// WithinDay implements attendance.EventRepository.
func (r *legacyRepository) WithinDay(ctx context.Context, employeeID string, day time.Time, fn func(ctx context.Context) error) error {
	return withDayLock(ctx, r.db, employeeID, day, fn)
}

// AppendEvent implements attendance.EventRepository.
func (r *legacyRepository) AppendEvent(ctx context.Context, event attendance.ClockEvent) (attendance.ClockEvent, error) {
	q := GetQuerier(ctx, r.db)

	switch event.Action {
	case attendance.ActionIn:
		query := `
			INSERT INTO attendance_days (employee_id, date, clock_in, last_in, clock_out, work_seconds)
			VALUES ($1, $2, $3, $3, NULL, 0)
			ON CONFLICT (employee_id, date)
			DO UPDATE SET last_in = EXCLUDED.last_in, clock_out = NULL, updated_at = now()
		`
		if _, err := q.Exec(ctx, query, event.EmployeeID, event.Date, event.Timestamp); err != nil {
			return attendance.ClockEvent{}, fmt.Errorf("failed to record clock in: %w", err)
		}

	case attendance.ActionOut:
		var secs int64
		if event.SessionSeconds != nil {
			secs = *event.SessionSeconds
		}
		query := `
			UPDATE attendance_days
			SET clock_out = $3, work_seconds = work_seconds + $4, updated_at = now()
			WHERE employee_id = $1
			  AND date = $2
		`
		tag, err := q.Exec(ctx, query, event.EmployeeID, event.Date, event.Timestamp, secs)
		if err != nil {
			return attendance.ClockEvent{}, fmt.Errorf("failed to record clock out: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return attendance.ClockEvent{}, attendance.ErrInvalidTransition
		}

	default:
		return attendance.ClockEvent{}, attendance.ErrUnknownAction
	}

	event.RecordedAt = event.Timestamp
	return event, nil
}

// EventsForDay implements attendance.EventRepository.
func (r *legacyRepository) EventsForDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.ClockEvent, error) {
	row, err := r.rowForDay(ctx, employeeID, day)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return row.events(), nil
}

// LatestEventForDay implements attendance.EventRepository.
func (r *legacyRepository) LatestEventForDay(ctx context.Context, employeeID string, day time.Time) (*attendance.ClockEvent, error) {
	events, err := r.EventsForDay(ctx, employeeID, day)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	latest := events[len(events)-1]
	return &latest, nil
}

// EventsForRange implements attendance.EventRepository.
func (r *legacyRepository) EventsForRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ClockEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + legacyColumns + `
		FROM attendance_days
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance day rows: %w", err)
	}
	defer rows.Close()

	var events []attendance.ClockEvent
	for rows.Next() {
		var row legacyRow
		if err := rows.Scan(&row.EmployeeID, &row.Date, &row.ClockIn, &row.LastIn, &row.ClockOut, &row.WorkSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan attendance day row: %w", err)
		}
		events = append(events, row.events()...)
	}

	return events, rows.Err()
}

// SaveDaySummary implements attendance.EventRepository. The legacy row is
// its own summary, so there is nothing to project.
func (r *legacyRepository) SaveDaySummary(ctx context.Context, summary attendance.DaySummary) error {
	return nil
}
