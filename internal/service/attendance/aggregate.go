package attendance

import (
	"time"

	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
)

// DayAggregate is the reduction of one day's events. Everything except the
// live open-session contribution is reproducible from the same event set at
// any time.
type DayAggregate struct {
	FirstIn *time.Time
	// LastOut is nil while the day is still open.
	LastOut *time.Time
	// TotalSeconds sums closed sessions plus, when the day is today and
	// still open, the elapsed time from the open clock-in to now.
	TotalSeconds int64
	// ClosedSeconds is TotalSeconds without the live contribution.
	ClosedSeconds int64
	SessionCount  int
	// Open reports a trailing unmatched clock-in.
	Open      bool
	OpenSince *time.Time
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AggregateDay reduces a day's ordered events. The live projection is
// applied only when day is now's calendar day; a trailing clock-in on a
// past day contributes nothing.
func AggregateDay(day time.Time, events []attendance.ClockEvent, now time.Time) DayAggregate {
	var agg DayAggregate
	var ins, outs int
	var lastOut *time.Time

	for i := range events {
		ev := events[i]
		switch ev.Action {
		case attendance.ActionIn:
			ins++
			if agg.FirstIn == nil {
				ts := ev.Timestamp
				agg.FirstIn = &ts
			}
			ts := ev.Timestamp
			agg.OpenSince = &ts
			agg.Open = true
		case attendance.ActionOut:
			outs++
			ts := ev.Timestamp
			lastOut = &ts
			if ev.SessionSeconds != nil {
				agg.ClosedSeconds += *ev.SessionSeconds
			}
			agg.Open = false
			agg.OpenSince = nil
		}
	}

	agg.SessionCount = min(ins, outs)
	agg.TotalSeconds = agg.ClosedSeconds
	if !agg.Open {
		agg.LastOut = lastOut
		agg.OpenSince = nil
	}

	if agg.Open && agg.OpenSince != nil && sameDate(day, now) {
		if elapsed := int64(now.Sub(*agg.OpenSince).Seconds()); elapsed > 0 {
			agg.TotalSeconds += elapsed
		}
	}

	return agg
}

// Summary converts the aggregate into the persisted projection row. The
// projection never stores the live contribution.
func (a DayAggregate) Summary(employeeID string, day time.Time) attendance.DaySummary {
	return attendance.DaySummary{
		EmployeeID:   employeeID,
		Date:         day,
		FirstIn:      a.FirstIn,
		LastOut:      a.LastOut,
		TotalSeconds: a.ClosedSeconds,
		SessionCount: a.SessionCount,
	}
}
