package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
)

func presentSlots(grid []attendance.Slot) []int {
	var idx []int
	for i, s := range grid {
		if s == attendance.SlotPresent {
			idx = append(idx, i)
		}
	}
	return idx
}

func slotRange(from, to int) []int {
	idx := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		idx = append(idx, i)
	}
	return idx
}

func TestBuildBlocks_SingleSession(t *testing.T) {
	t.Parallel()

	events := []attendance.ClockEvent{
		inEvent(at(9, 0, 0)),
		outEvent(at(17, 0, 0)),
	}

	grid := BuildBlocks(testDay, events, at(18, 0, 0))
	require.Len(t, grid, attendance.SlotsPerDay)

	// 09:00 opens slot 18; an out at exactly 17:00 closes slot 33 and
	// leaves 17:00-17:30 absent.
	assert.Equal(t, slotRange(18, 33), presentSlots(grid))
}

func TestBuildBlocks_ClockOutBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		out  time.Time
		want []int
	}{
		{"out on the half hour", at(17, 0, 0), slotRange(18, 33)},
		{"out mid-slot", at(17, 10, 0), slotRange(18, 34)},
		{"out one second past the boundary", at(17, 0, 1), slotRange(18, 34)},
		{"out one second before the boundary", at(16, 59, 59), slotRange(18, 33)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			events := []attendance.ClockEvent{
				inEvent(at(9, 0, 0)),
				outEvent(c.out),
			}
			grid := BuildBlocks(testDay, events, at(18, 0, 0))
			assert.Equal(t, c.want, presentSlots(grid))
		})
	}
}

func TestBuildBlocks_ZeroLengthSessionMarksInSlot(t *testing.T) {
	t.Parallel()

	events := []attendance.ClockEvent{
		inEvent(at(9, 0, 0)),
		outEvent(at(9, 0, 0)),
	}

	grid := BuildBlocks(testDay, events, at(10, 0, 0))
	assert.Equal(t, []int{18}, presentSlots(grid))
}

func TestBuildBlocks_DisjointSessions(t *testing.T) {
	t.Parallel()

	events := []attendance.ClockEvent{
		inEvent(at(9, 0, 0)),
		outEvent(at(11, 0, 0)),
		inEvent(at(14, 0, 0)),
		outEvent(at(16, 0, 0)),
	}

	grid := BuildBlocks(testDay, events, at(18, 0, 0))

	want := append(slotRange(18, 21), slotRange(28, 31)...)
	assert.Equal(t, want, presentSlots(grid))
}

func TestBuildBlocks_OverlapIsIdempotent(t *testing.T) {
	t.Parallel()

	// Marking the same slot twice changes nothing; the grid is a set.
	events := []attendance.ClockEvent{
		inEvent(at(9, 0, 0)),
		outEvent(at(11, 0, 0)),
		inEvent(at(10, 30, 0)),
		outEvent(at(12, 0, 0)),
	}

	grid := BuildBlocks(testDay, events, at(13, 0, 0))
	assert.Equal(t, slotRange(18, 23), presentSlots(grid))
}

func TestBuildBlocks_OpenSessionProjectsToNowToday(t *testing.T) {
	t.Parallel()

	events := []attendance.ClockEvent{
		inEvent(at(9, 0, 0)),
	}

	grid := BuildBlocks(testDay, events, at(10, 45, 0))
	assert.Equal(t, slotRange(18, 21), presentSlots(grid))
}

func TestBuildBlocks_OpenSessionOnPastDayMarksOnlyStart(t *testing.T) {
	t.Parallel()

	events := []attendance.ClockEvent{
		inEvent(at(9, 0, 0)),
	}
	later := time.Date(2024, 3, 20, 10, 45, 0, 0, time.UTC)

	grid := BuildBlocks(testDay, events, later)
	assert.Equal(t, []int{18}, presentSlots(grid))
}

func TestBuildBlocks_MidnightWrap(t *testing.T) {
	t.Parallel()

	events := []attendance.ClockEvent{
		inEvent(at(23, 0, 0)),
		outEvent(at(1, 0, 0)),
	}

	grid := BuildBlocks(testDay, events, at(2, 0, 0))

	want := append(slotRange(0, 1), slotRange(46, 47)...)
	assert.Equal(t, want, presentSlots(grid))
}

func TestBuildBlocks_NoEvents(t *testing.T) {
	t.Parallel()

	grid := BuildBlocks(testDay, nil, at(12, 0, 0))
	require.Len(t, grid, attendance.SlotsPerDay)
	assert.Empty(t, presentSlots(grid))
}
