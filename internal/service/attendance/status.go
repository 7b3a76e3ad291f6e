package attendance

import (
	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
)

// Day status thresholds. These are externally observable business rules;
// every status decision in the system goes through Classify.
const (
	// PresentThresholdSeconds is the 7-hour full-day boundary.
	PresentThresholdSeconds int64 = 7 * 60 * 60
	// LateThresholdSeconds is the 5-hour reduced-day boundary.
	LateThresholdSeconds int64 = 5 * 60 * 60
)

// Classify maps accumulated seconds and the currently-open flag to a day
// status. Checks are ordered; the first match wins.
func Classify(totalSeconds int64, isOpen bool) attendance.Status {
	switch {
	case isOpen:
		return attendance.StatusWorking
	case totalSeconds >= PresentThresholdSeconds:
		return attendance.StatusPresent
	case totalSeconds >= LateThresholdSeconds:
		return attendance.StatusLate
	case totalSeconds > 0:
		return attendance.StatusPartial
	default:
		return attendance.StatusAbsent
	}
}
