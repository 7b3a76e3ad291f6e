package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Clock records a clock-in or clock-out transition. Redundant
	// same-state requests succeed as no-ops reporting the current state.
	Clock(ctx context.Context, req ClockRequest) (ClockResponse, error)

	// DashboardSummary returns the day card for one employee and day.
	DashboardSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)

	// History returns per-day summaries, sessions and presence grids for
	// a day range, plus an aggregate over the range.
	History(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
}
