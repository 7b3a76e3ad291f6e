package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidTransition = errors.New("cannot clock out without a prior clock in")
	ErrUnknownAction     = errors.New("action must be either 'in' or 'out'")
	ErrSummaryNotFound   = errors.New("day summary not found")
)
