// Package sqlite provides a database/sql-backed store for local
// development and tests. It implements the same repository contracts as
// the PostgreSQL layer using the current-generation event layout; the
// legacy single-row layout never shipped on sqlite deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
	"github.com/zenith-erp/erp-backend-go/internal/domain/employee"
)

type Store struct {
	db *sql.DB
	// mu serializes writers; PostgreSQL deployments rely on the per-day
	// advisory lock instead.
	mu sync.Mutex
}

// New opens (and migrates) a sqlite store. Use ":memory:" in tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		employee_code TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS attendance_events (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		ts TEXT NOT NULL,
		action TEXT NOT NULL CHECK (action IN ('in', 'out')),
		session_seconds INTEGER,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_events_employee_date
		ON attendance_events (employee_id, date, ts, recorded_at);

	CREATE TABLE IF NOT EXISTS attendance_day_summaries (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		first_in TEXT,
		last_out TEXT,
		total_seconds INTEGER NOT NULL DEFAULT 0,
		session_count INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

type ctxKey int

const txKey ctxKey = iota

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *Store) querier(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

const (
	dateLayout = "2006-01-02"
	tsLayout   = time.RFC3339
)

func parseTs(v string) (time.Time, error) {
	return time.Parse(tsLayout, v)
}

func parseTsPtr(v *string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := parseTs(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTsPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(tsLayout)
	return &v
}

// WithinDay implements attendance.EventRepository. SQLite has a single
// writer anyway; the mutex keeps the read-validate-insert sequence atomic
// for concurrent requests on the same day.
func (s *Store) WithinDay(ctx context.Context, employeeID string, day time.Time, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// AppendEvent implements attendance.EventRepository.
func (s *Store) AppendEvent(ctx context.Context, event attendance.ClockEvent) (attendance.ClockEvent, error) {
	q := s.querier(ctx)

	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO attendance_events (id, employee_id, date, ts, action, session_seconds, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		event.ID,
		event.EmployeeID,
		event.Date.Format(dateLayout),
		event.Timestamp.Format(tsLayout),
		string(event.Action),
		event.SessionSeconds,
		event.RecordedAt.Format(tsLayout),
	)
	if err != nil {
		return attendance.ClockEvent{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	return event, nil
}

func scanEvents(rows *sql.Rows) ([]attendance.ClockEvent, error) {
	var events []attendance.ClockEvent
	for rows.Next() {
		var ev attendance.ClockEvent
		var date, ts, recordedAt, action string
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &date, &ts, &action, &ev.SessionSeconds, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		var err error
		if ev.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse event date: %w", err)
		}
		if ev.Timestamp, err = parseTs(ts); err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp: %w", err)
		}
		if ev.RecordedAt, err = parseTs(recordedAt); err != nil {
			return nil, fmt.Errorf("failed to parse event recorded_at: %w", err)
		}
		ev.Action = attendance.Action(action)
		events = append(events, ev)
	}
	return events, rows.Err()
}

const eventColumns = `id, employee_id, date, ts, action, session_seconds, recorded_at`

// EventsForDay implements attendance.EventRepository.
func (s *Store) EventsForDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.ClockEvent, error) {
	q := s.querier(ctx)

	rows, err := q.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM attendance_events
		WHERE employee_id = ? AND date = ?
		ORDER BY ts, recorded_at
	`, employeeID, day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query events for day: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// LatestEventForDay implements attendance.EventRepository.
func (s *Store) LatestEventForDay(ctx context.Context, employeeID string, day time.Time) (*attendance.ClockEvent, error) {
	q := s.querier(ctx)

	rows, err := q.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM attendance_events
		WHERE employee_id = ? AND date = ?
		ORDER BY ts DESC, recorded_at DESC
		LIMIT 1
	`, employeeID, day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest event for day: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// EventsForRange implements attendance.EventRepository.
func (s *Store) EventsForRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ClockEvent, error) {
	q := s.querier(ctx)

	rows, err := q.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM attendance_events
		WHERE employee_id = ? AND date BETWEEN ? AND ?
		ORDER BY date, ts, recorded_at
	`, employeeID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query events for range: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// SaveDaySummary implements attendance.EventRepository.
func (s *Store) SaveDaySummary(ctx context.Context, summary attendance.DaySummary) error {
	q := s.querier(ctx)

	_, err := q.ExecContext(ctx, `
		INSERT INTO attendance_day_summaries (employee_id, date, first_in, last_out, total_seconds, session_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, date)
		DO UPDATE SET
			first_in = excluded.first_in,
			last_out = excluded.last_out,
			total_seconds = excluded.total_seconds,
			session_count = excluded.session_count,
			updated_at = excluded.updated_at
	`,
		summary.EmployeeID,
		summary.Date.Format(dateLayout),
		formatTsPtr(summary.FirstIn),
		formatTsPtr(summary.LastOut),
		summary.TotalSeconds,
		summary.SessionCount,
		time.Now().Format(tsLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save day summary: %w", err)
	}
	return nil
}

// DaySummary reads back the persisted projection; used by tests to check
// the projection matches a recomputation from the ledger.
func (s *Store) DaySummary(ctx context.Context, employeeID string, day time.Time) (attendance.DaySummary, error) {
	q := s.querier(ctx)

	var summary attendance.DaySummary
	var date string
	var firstIn, lastOut *string
	err := q.QueryRowContext(ctx, `
		SELECT employee_id, date, first_in, last_out, total_seconds, session_count
		FROM attendance_day_summaries
		WHERE employee_id = ? AND date = ?
	`, employeeID, day.Format(dateLayout)).Scan(
		&summary.EmployeeID, &date, &firstIn, &lastOut, &summary.TotalSeconds, &summary.SessionCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.DaySummary{}, attendance.ErrSummaryNotFound
		}
		return attendance.DaySummary{}, fmt.Errorf("failed to get day summary: %w", err)
	}

	if summary.Date, err = time.Parse(dateLayout, date); err != nil {
		return attendance.DaySummary{}, fmt.Errorf("failed to parse summary date: %w", err)
	}
	if summary.FirstIn, err = parseTsPtr(firstIn); err != nil {
		return attendance.DaySummary{}, fmt.Errorf("failed to parse summary first_in: %w", err)
	}
	if summary.LastOut, err = parseTsPtr(lastOut); err != nil {
		return attendance.DaySummary{}, fmt.Errorf("failed to parse summary last_out: %w", err)
	}
	return summary, nil
}

// CreateEmployee seeds an employee row; dev/test helper.
func (s *Store) CreateEmployee(ctx context.Context, emp employee.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, employee_code, full_name, password_hash, active)
		VALUES (?, ?, ?, ?, ?)
	`, emp.ID, emp.EmployeeCode, emp.FullName, emp.PasswordHash, emp.Active)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (s *Store) scanEmployee(row *sql.Row) (employee.Employee, error) {
	var emp employee.Employee
	var createdAt, updatedAt string
	err := row.Scan(&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.PasswordHash, &emp.Active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to scan employee: %w", err)
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (s *Store) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := s.querier(ctx)
	return s.scanEmployee(q.QueryRowContext(ctx, `
		SELECT id, employee_code, full_name, password_hash, active, created_at, updated_at
		FROM employees WHERE id = ?
	`, id))
}

// GetByCode implements employee.EmployeeRepository.
func (s *Store) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := s.querier(ctx)
	return s.scanEmployee(q.QueryRowContext(ctx, `
		SELECT id, employee_code, full_name, password_hash, active, created_at, updated_at
		FROM employees WHERE employee_code = ?
	`, code))
}
