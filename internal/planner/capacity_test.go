package planner

import (
	"math"
	"testing"
	"time"
)

// mondayMorning is a known Monday, 2026-01-05, at the given clock time.
func mondayMorning(hour, minute int) time.Time {
	return time.Date(2026, time.January, 5, hour, minute, 0, 0, time.UTC)
}

func fullWeek(slots ...TimeSlot) Settings {
	var set Settings
	for i := range set.Week {
		set.Week[i] = append([]TimeSlot(nil), slots...)
	}
	return set
}

func officeHours() Settings {
	return fullWeek(TimeSlot{Start: "09:00", End: "17:00"})
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAvailableHoursFullDay(t *testing.T) {
	t.Parallel()
	set := officeHours()
	now := mondayMorning(9, 0)

	// Today at start of slot: the full 8 hours remain.
	if got := AvailableHours(set, DateOf(now), now); !almostEqual(got, 8) {
		t.Fatalf("AvailableHours(today) = %v, want 8", got)
	}
	// A future day is never clipped.
	if got := AvailableHours(set, DateOf(now).AddDays(3), now); !almostEqual(got, 8) {
		t.Fatalf("AvailableHours(future) = %v, want 8", got)
	}
}

func TestAvailableHoursShrinksDuringToday(t *testing.T) {
	t.Parallel()
	set := officeHours()

	now := mondayMorning(12, 0)
	if got := AvailableHours(set, DateOf(now), now); !almostEqual(got, 5) {
		t.Fatalf("at 12:00 = %v, want 5", got)
	}

	now = mondayMorning(18, 0)
	if got := AvailableHours(set, DateOf(now), now); !almostEqual(got, 0) {
		t.Fatalf("at 18:00 = %v, want 0", got)
	}
}

func TestAvailableHoursMultipleSlots(t *testing.T) {
	t.Parallel()
	set := fullWeek(
		TimeSlot{Start: "08:00", End: "10:00"},
		TimeSlot{Start: "14:00", End: "17:30"},
	)
	now := mondayMorning(9, 0)

	// First slot half gone, second untouched: 1 + 3.5.
	if got := AvailableHours(set, DateOf(now), now); !almostEqual(got, 4.5) {
		t.Fatalf("got %v, want 4.5", got)
	}
}

func TestAvailableHoursEmptyWeekday(t *testing.T) {
	t.Parallel()
	var set Settings
	set.Week[0] = []TimeSlot{{Start: "09:00", End: "17:00"}} // Monday only
	now := mondayMorning(8, 0)

	if got := AvailableHours(set, DateOf(now).AddDays(1), now); got != 0 {
		t.Fatalf("Tuesday = %v, want 0", got)
	}
}

func TestAvailableHoursIgnoresBrokenSlots(t *testing.T) {
	t.Parallel()
	set := fullWeek(
		TimeSlot{Start: "bogus", End: "17:00"},
		TimeSlot{Start: "12:00", End: "11:00"}, // inverted
		TimeSlot{Start: "09:00", End: "10:00"},
	)
	now := mondayMorning(8, 0)

	if got := AvailableHours(set, DateOf(now), now); !almostEqual(got, 1) {
		t.Fatalf("got %v, want 1", got)
	}
}
