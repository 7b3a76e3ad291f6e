package attendance

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/validator"
)

// ClockRequest is the body of POST /attendance/clock.
type ClockRequest struct {
	EmployeeID string `json:"employee_id"`
	Action     string `json:"action"`
	// ClientDate, when supplied, is authoritative for which work day the
	// event belongs to; the server clock stays authoritative for the
	// time-of-day. This tolerates client/server skew across midnight.
	ClientDate *string `json:"client_date,omitempty"`
}

func (r ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsInSlice(r.Action, []string{string(ActionIn), string(ActionOut)}) {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "action must be 'in' or 'out'"})
	}
	if r.ClientDate != nil && *r.ClientDate != "" {
		if _, ok := validator.IsValidDate(*r.ClientDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "client_date", Message: "client_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ClockResponse reports the state after the request, including for
// redundant no-op requests.
type ClockResponse struct {
	Status    Status `json:"status"`
	Timestamp string `json:"timestamp"`
	Action    Action `json:"action"`
	// DurationSeconds is present only when this request closed a session.
	DurationSeconds *int64 `json:"duration,omitempty"`
	IsClockedIn     bool   `json:"is_clocked_in"`
}

// SummaryRequest identifies one (employee, day) for the dashboard card.
type SummaryRequest struct {
	EmployeeID string
	Date       string
}

func (r SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SummaryResponse is the dashboard card for one day.
type SummaryResponse struct {
	Date        string          `json:"date"`
	ClockIn     *string         `json:"clock_in"`
	ClockOut    *string         `json:"clock_out"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	Status      Status          `json:"status"`
	IsClockedIn bool            `json:"is_clocked_in"`
}

// HistoryFilter selects the day range for the attendance history view,
// either an explicit start/end pair or a month/year.
type HistoryFilter struct {
	EmployeeID string
	StartDate  string
	EndDate    string
	Month      string
	Year       string
}

func (f HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}

	hasRange := f.StartDate != "" || f.EndDate != ""
	if hasRange {
		start, okStart := validator.IsValidDate(f.StartDate)
		if !okStart {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
		end, okEnd := validator.IsValidDate(f.EndDate)
		if !okEnd {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
		if okStart && okEnd && start.After(end) {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must not be after end_date"})
		}
	} else if f.Month != "" {
		if _, ok := f.month(time.Now()); !ok {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be 1-12 or in YYYY-MM format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// month resolves the month/year pair. The month parameter accepts either
// "YYYY-MM" or a bare month number combined with year (defaulting to now's
// year).
func (f HistoryFilter) month(now time.Time) (time.Time, bool) {
	if m, ok := validator.IsValidMonth(f.Month); ok {
		return m, true
	}
	m, err := strconv.Atoi(f.Month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	year := now.Year()
	if f.Year != "" {
		y, err := strconv.Atoi(f.Year)
		if err != nil || y < 2000 || y > 2100 {
			return time.Time{}, false
		}
		year = y
	}
	return time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC), true
}

// Range resolves the filter to an inclusive [from, to] day range,
// defaulting to the current month. Validate must have passed.
func (f HistoryFilter) Range(now time.Time) (time.Time, time.Time) {
	if f.StartDate != "" || f.EndDate != "" {
		from, _ := validator.IsValidDate(f.StartDate)
		to, _ := validator.IsValidDate(f.EndDate)
		return from, to
	}
	if f.Month != "" {
		if from, ok := f.month(now); ok {
			return from, from.AddDate(0, 1, -1)
		}
	}
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

// SessionItem is one paired (or still open) in/out interval.
type SessionItem struct {
	ClockIn  string  `json:"clock_in"`
	ClockOut *string `json:"clock_out"`
	// DurationSeconds is nil while the session is still open.
	DurationSeconds *int64 `json:"duration_seconds"`
}

// HistoryDay is one day of the attendance history view.
type HistoryDay struct {
	Date         string        `json:"date"`
	ClockIn      *string       `json:"clock_in"`
	ClockOut     *string       `json:"clock_out"`
	TotalSeconds int64         `json:"total_seconds"`
	Status       Status        `json:"status"`
	Sessions     []SessionItem `json:"sessions"`
	Blocks       []Slot        `json:"blocks"`
}

// HistorySummary aggregates the returned days.
type HistorySummary struct {
	TotalHours  decimal.Decimal `json:"total_hours"`
	PresentDays int             `json:"present_days"`
	LateDays    int             `json:"late_days"`
	PartialDays int             `json:"partial_days"`
	AbsentDays  int             `json:"absent_days"`
}

// HistoryResponse is the full attendance-history payload.
type HistoryResponse struct {
	Days    []HistoryDay   `json:"days"`
	Summary HistorySummary `json:"summary"`
}
