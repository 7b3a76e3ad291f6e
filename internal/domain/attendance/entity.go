package attendance

import (
	"time"
)

type Action string

const (
	ActionIn  Action = "in"
	ActionOut Action = "out"
)

// Status is the externally visible classification of a day.
type Status string

const (
	StatusWorking Status = "Working"
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusPartial Status = "Partial"
	StatusAbsent  Status = "Absent"
)

// ClockEvent is one immutable entry in the attendance ledger. Events are
// only ever appended; corrections happen by appending, never by rewriting.
type ClockEvent struct {
	ID         string
	EmployeeID string
	// Date is the logical work day the event belongs to. It may differ
	// from Timestamp's calendar day when a client clocks out across
	// midnight.
	Date      time.Time
	Timestamp time.Time
	Action    Action
	// SessionSeconds is set only on "out" events that close a session.
	SessionSeconds *int64
	RecordedAt     time.Time
}

// DaySummary is derived from the day's events and always recomputable from
// them; it is persisted only as a reporting projection.
type DaySummary struct {
	EmployeeID   string
	Date         time.Time
	FirstIn      *time.Time
	LastOut      *time.Time
	TotalSeconds int64
	SessionCount int
}

// Slot is one 30-minute unit of the daily presence grid.
type Slot string

const (
	SlotPresent Slot = "present"
	SlotAbsent  Slot = "absent"
)

// SlotsPerDay is the grid resolution: 48 half-hour slots covering one day.
const SlotsPerDay = 48
