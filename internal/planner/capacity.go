package planner

import "time"

// AvailableHours converts the weekly availability into the free hours of one
// calendar day.
//
// For the current day, slots are clipped against now: a slot that already
// ended contributes nothing, a slot straddling now contributes only its
// remaining minutes. Capacity for today therefore shrinks as the day
// progresses and must never be cached across real time.
func AvailableHours(set Settings, day Date, now time.Time) float64 {
	slots := set.SlotsFor(day)
	if len(slots) == 0 {
		return 0
	}

	today := DateOf(now)
	nowMinutes := now.Hour()*60 + now.Minute()

	total := 0
	for _, sl := range slots {
		start, err := ParseClock(sl.Start)
		if err != nil {
			continue
		}
		end, err := ParseClock(sl.End)
		if err != nil || end <= start {
			continue
		}
		if day == today && start < nowMinutes {
			start = nowMinutes
		}
		if end > start {
			total += end - start
		}
	}
	return float64(total) / 60
}
