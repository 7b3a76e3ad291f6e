package attendance

import (
	"time"

	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
)

const secondsPerDay = 86400

func secondsOfDay(t time.Time) int64 {
	return int64(t.Hour())*3600 + int64(t.Minute())*60 + int64(t.Second())
}

// SessionSeconds is the single authoritative session-length computation.
// Everything else consumes its result instead of re-deriving it.
//
// Timestamps are wall clock with no timezone handling, so an out
// time-of-day earlier than the in time-of-day means the session crossed
// local midnight and gets a full day added.
func SessionSeconds(in, out time.Time) int64 {
	d := secondsOfDay(out) - secondsOfDay(in)
	if d < 0 {
		d += secondsPerDay
	}
	return d
}

// Session is one paired (or still open) in/out interval of a day.
type Session struct {
	In  time.Time
	Out *time.Time
	// Seconds is nil while the session is open.
	Seconds *int64
}

// PairSessions folds an ordered, alternating event sequence into sessions.
// A trailing unmatched "in" yields an open last session.
func PairSessions(events []attendance.ClockEvent) []Session {
	var sessions []Session
	for _, ev := range events {
		switch ev.Action {
		case attendance.ActionIn:
			sessions = append(sessions, Session{In: ev.Timestamp})
		case attendance.ActionOut:
			if len(sessions) == 0 {
				continue
			}
			last := &sessions[len(sessions)-1]
			if last.Out != nil {
				continue
			}
			out := ev.Timestamp
			last.Out = &out
			if ev.SessionSeconds != nil {
				last.Seconds = ev.SessionSeconds
			} else {
				secs := SessionSeconds(last.In, out)
				last.Seconds = &secs
			}
		}
	}
	return sessions
}
