package planner

import (
	"fmt"
	"math"
	"time"
)

const (
	// horizonDays bounds the forward walk of the allocator. Beyond it a task
	// is reported as unschedulable instead of searching forever.
	horizonDays = 365

	// epsilon absorbs float noise when comparing remaining hours and free
	// capacity against zero.
	epsilon = 1e-6
)

// fragmentSuffix decorates the fragments of a task that was split across
// days; unschedulableSuffix flags the in-band failure fragment.
const (
	fragmentSuffix      = " (Teil %d)"
	unschedulableSuffix = " (nicht einplanbar)"
)

// allocator carries the running per-day capacity ledger of one recompute
// pass. Fixed placements and flexible fragments draw from the same ledger, so
// allocation order directly determines outcomes.
type allocator struct {
	settings Settings
	now      time.Time
	today    Date
	used     map[Date]float64
	newID    func() string
}

func newAllocator(set Settings, now time.Time, newID func() string) *allocator {
	return &allocator{
		settings: set,
		now:      now,
		today:    DateOf(now),
		used:     map[Date]float64{},
		newID:    newID,
	}
}

// free is the day's configured capacity minus everything placed on it so far
// in this pass.
func (a *allocator) free(day Date) float64 {
	return AvailableHours(a.settings, day, a.now) - a.used[day]
}

// placeFixed emits the single fragment of a fixed task on its resolved date.
// Fixed tasks are never split, but they do consume ledger capacity so later
// flexible tasks see the day as (partially) taken.
func (a *allocator) placeFixed(t Task, on Date) ScheduleItem {
	hours := t.RequiredHours()
	a.used[on] += hours
	return a.fragment(t, on, hours, t.Description)
}

// placeFlexible walks forward from today, carving the task's required hours
// out of each day's remaining capacity until the task is fully placed or the
// horizon is exhausted.
func (a *allocator) placeFlexible(t Task) []ScheduleItem {
	remaining := t.RequiredHours()
	if remaining <= epsilon {
		return []ScheduleItem{a.fragment(t, a.today, 0, t.Description)}
	}

	var out []ScheduleItem
	overflow := false
	for offset := 0; ; offset++ {
		if offset > horizonDays {
			overflow = true
			break
		}
		day := a.today.AddDays(offset)
		free := a.free(day)
		if free <= epsilon {
			continue
		}
		hours := math.Min(remaining, free)
		out = append(out, a.fragment(t, day, hours, t.Description))
		a.used[day] += hours
		remaining -= hours
		if remaining <= epsilon {
			break
		}
	}

	if overflow {
		out = append(out, a.fragment(t, Date{}, remaining, t.Description))
	}
	if len(out) > 1 {
		for i := range out {
			out[i].Description = t.Description + fmt.Sprintf(fragmentSuffix, i+1)
		}
	}
	if overflow {
		last := &out[len(out)-1]
		last.Description += unschedulableSuffix
	}
	return out
}

// fragment builds one schedule item carrying the task's display fields.
func (a *allocator) fragment(t Task, on Date, hours float64, desc string) ScheduleItem {
	it := ScheduleItem{
		TaskID:            t.ID,
		ScheduleID:        a.newID(),
		Description:       desc,
		Kind:              t.Kind,
		PlannedDate:       on,
		Hours:             hours,
		AssignedTo:        append([]string(nil), t.AssignedTo...),
		Notes:             t.Notes,
		Location:          t.Location,
		ManuallyScheduled: t.ManuallyScheduled,
	}
	switch t.Kind {
	case KindBenefit:
		if t.Benefit != nil {
			it.FinancialBenefit = t.Benefit.FinancialBenefit
			it.EstimatedHours = t.Benefit.EstimatedHours
		}
	case KindDeadline:
		if t.Deadline != nil {
			it.DeadlineDate = t.Deadline.Due
		}
	case KindAppointment:
		if t.Appointment != nil {
			it.AppointmentDate = t.Appointment.On
			it.FixedTime = t.Appointment.At
		}
	}
	return it
}
