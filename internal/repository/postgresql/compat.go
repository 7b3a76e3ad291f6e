package postgresql

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/database"
)

// compatRepository picks between the two storage generations with a
// one-time capability probe: if the attendance_events table exists the
// deployment has been migrated, otherwise the legacy attendance_days
// layout answers. The result is cached for the process lifetime and
// callers never learn which backing served them.
type compatRepository struct {
	db *database.DB

	mu      sync.Mutex
	backend attendance.EventRepository
}

func NewCompatRepository(db *database.DB) attendance.EventRepository {
	return &compatRepository{db: db}
}

func (r *compatRepository) resolve(ctx context.Context) (attendance.EventRepository, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend != nil {
		return r.backend, nil
	}

	var migrated bool
	err := r.db.QueryRow(ctx, `SELECT to_regclass('attendance_events') IS NOT NULL`).Scan(&migrated)
	if err != nil {
		// Probe failures are not cached; the next call retries.
		return nil, fmt.Errorf("failed to probe attendance schema: %w", err)
	}

	if migrated {
		r.backend = NewEventRepository(r.db)
	} else {
		r.backend = NewLegacyRepository(r.db)
	}
	return r.backend, nil
}

// WithinDay implements attendance.EventRepository.
func (r *compatRepository) WithinDay(ctx context.Context, employeeID string, day time.Time, fn func(ctx context.Context) error) error {
	backend, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	return backend.WithinDay(ctx, employeeID, day, fn)
}

// AppendEvent implements attendance.EventRepository.
func (r *compatRepository) AppendEvent(ctx context.Context, event attendance.ClockEvent) (attendance.ClockEvent, error) {
	backend, err := r.resolve(ctx)
	if err != nil {
		return attendance.ClockEvent{}, err
	}
	return backend.AppendEvent(ctx, event)
}

// EventsForDay implements attendance.EventRepository.
func (r *compatRepository) EventsForDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.ClockEvent, error) {
	backend, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return backend.EventsForDay(ctx, employeeID, day)
}

// LatestEventForDay implements attendance.EventRepository.
func (r *compatRepository) LatestEventForDay(ctx context.Context, employeeID string, day time.Time) (*attendance.ClockEvent, error) {
	backend, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return backend.LatestEventForDay(ctx, employeeID, day)
}

// EventsForRange implements attendance.EventRepository.
func (r *compatRepository) EventsForRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ClockEvent, error) {
	backend, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return backend.EventsForRange(ctx, employeeID, from, to)
}

// SaveDaySummary implements attendance.EventRepository.
func (r *compatRepository) SaveDaySummary(ctx context.Context, summary attendance.DaySummary) error {
	backend, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	return backend.SaveDaySummary(ctx, summary)
}
