package planner

import (
	"math"
	"sort"
)

// resolution pairs a fixed task with the date its placement targets. It is a
// short-lived record local to one recompute; the task snapshot itself is
// never annotated.
type resolution struct {
	task Task
	date Date
}

// targetDate computes the calendar day a fixed task aims at. The second
// return is false when the task lacks the date its kind requires, in which
// case it contributes no schedule item.
//
// Rules, highest precedence first:
//   - manual pin: the pinned date, clamped to today so nothing is silently
//     scheduled into the past
//   - appointment: its fixed date, clamped to today when overdue (the missed
//     appointment is surfaced, not hidden)
//   - deadline: the due date minus ceil(required hours) buffer days; when the
//     buffered start is already gone but the deadline can still be met, work
//     must start today. An overdue deadline keeps its past start date so the
//     overdue work is surfaced.
func targetDate(t Task, today Date) (Date, bool) {
	if t.Pinned() {
		d := t.ManualDate
		if d.Before(today) {
			d = today
		}
		return d, true
	}

	switch t.Kind {
	case KindAppointment:
		if t.Appointment == nil || t.Appointment.On.IsZero() {
			return Date{}, false
		}
		d := t.Appointment.On
		if d.Before(today) {
			d = today
		}
		return d, true

	case KindDeadline:
		if t.Deadline == nil || t.Deadline.Due.IsZero() {
			return Date{}, false
		}
		due := t.Deadline.Due
		buffer := int(math.Ceil(t.RequiredHours()))
		start := due.AddDays(-buffer)
		if start.Before(today) && !due.Before(today) {
			return today, true
		}
		return start, true
	}

	return Date{}, false
}

// resolveFixed maps the fixed tasks of one subset to their target dates and
// orders them by date, then clock time. Tasks without a resolvable date are
// dropped; date ties without a clock time keep their input order.
func resolveFixed(tasks []Task, today Date) []resolution {
	out := make([]resolution, 0, len(tasks))
	for _, t := range tasks {
		d, ok := targetDate(t, today)
		if !ok {
			continue
		}
		out = append(out, resolution{task: t, date: d})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if d := out[i].date.Compare(out[j].date); d != 0 {
			return d < 0
		}
		return clockOf(out[i].task) < clockOf(out[j].task)
	})
	return out
}
