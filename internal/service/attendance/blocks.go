package attendance

import (
	"time"

	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
)

func slotIndex(t time.Time) int {
	slot := t.Hour()*2 + t.Minute()/30
	if slot < 0 {
		return 0
	}
	if slot > attendance.SlotsPerDay-1 {
		return attendance.SlotsPerDay - 1
	}
	return slot
}

func markSlots(grid []attendance.Slot, start, end int) {
	for i := start; i <= end && i < len(grid); i++ {
		grid[i] = attendance.SlotPresent
	}
}

// BuildBlocks projects a day's sessions onto the 48-slot half-hour grid.
// It is a pure function of the event list (plus now for the open tail) and
// can be regenerated on demand; overlapping sessions mark idempotently.
func BuildBlocks(day time.Time, events []attendance.ClockEvent, now time.Time) []attendance.Slot {
	grid := make([]attendance.Slot, attendance.SlotsPerDay)
	for i := range grid {
		grid[i] = attendance.SlotAbsent
	}

	for _, s := range PairSessions(events) {
		start := slotIndex(s.In)

		if s.Out == nil {
			// Open session: project to now on the current day, otherwise
			// only the clock-in slot is known.
			end := start
			if sameDate(day, now) {
				end = slotIndex(now)
			}
			if end < start {
				end = start
			}
			markSlots(grid, start, end)
			continue
		}

		out := *s.Out
		end := slotIndex(out)
		// An out exactly on a slot boundary closes the previous slot
		// without occupying the one it names: 17:00:00 ends slot 33,
		// 17:10 still covers slot 34.
		if out.Minute()%30 == 0 && out.Second() == 0 && out.Nanosecond() == 0 {
			end--
		}

		if secondsOfDay(out) < secondsOfDay(s.In) {
			// Session crossed midnight under wall-clock timestamps.
			markSlots(grid, start, attendance.SlotsPerDay-1)
			markSlots(grid, 0, end)
			continue
		}
		if end < start {
			end = start
		}
		markSlots(grid, start, end)
	}

	return grid
}
