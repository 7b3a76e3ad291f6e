package attendance

import (
	"context"
	"time"
)

// EventRepository is the single storage contract for attendance events.
// Two interchangeable backings exist: the current append-only event table
// and the legacy single-row-per-day table kept alive for the migration
// window. Callers never know which one answers.
type EventRepository interface {
	// WithinDay runs fn inside one transaction serialized per
	// (employeeID, day). The transaction is rolled back when fn returns
	// an error, so an event insert and its summary update are never
	// half-applied.
	WithinDay(ctx context.Context, employeeID string, day time.Time, fn func(ctx context.Context) error) error

	// AppendEvent appends one clock event to the ledger.
	AppendEvent(ctx context.Context, event ClockEvent) (ClockEvent, error)

	// EventsForDay returns the day's events ordered by (timestamp, recorded_at).
	EventsForDay(ctx context.Context, employeeID string, day time.Time) ([]ClockEvent, error)

	// LatestEventForDay returns the most recent event for the day, or nil
	// when the day has none. The clock state machine derives its current
	// state from this, not from a stored flag.
	LatestEventForDay(ctx context.Context, employeeID string, day time.Time) (*ClockEvent, error)

	// EventsForRange returns events for days in [from, to], ordered by
	// (date, timestamp, recorded_at).
	EventsForRange(ctx context.Context, employeeID string, from, to time.Time) ([]ClockEvent, error)

	// SaveDaySummary upserts the derived summary projection for a day.
	SaveDaySummary(ctx context.Context, summary DaySummary) error
}
