package planner

// RequiredHours returns the kind-specific time requirement. Missing payloads
// and negative values default to 0.
func (t Task) RequiredHours() float64 {
	var h float64
	switch t.Kind {
	case KindBenefit:
		if t.Benefit != nil {
			h = t.Benefit.EstimatedHours
		}
	case KindDeadline:
		if t.Deadline != nil {
			h = t.Deadline.Hours
		}
	case KindAppointment:
		if t.Appointment != nil {
			h = t.Appointment.Hours
		}
	}
	if h < 0 {
		return 0
	}
	return h
}

// BenefitPerHour is the value density of a benefit task. It is 0 unless both
// the benefit and the estimate are positive.
func (t Task) BenefitPerHour() float64 {
	if t.Kind != KindBenefit || t.Benefit == nil {
		return 0
	}
	if t.Benefit.FinancialBenefit <= 0 || t.Benefit.EstimatedHours <= 0 {
		return 0
	}
	return t.Benefit.FinancialBenefit / t.Benefit.EstimatedHours
}

// comparator is the total order used to sequence tasks before allocation.
// It is only consulted while auto priority is on.
type comparator struct {
	today        Date
	calcPriority bool
}

// compare returns <0 when a goes before b, >0 for the reverse, and 0 when the
// input order decides (the sort must be stable).
//
// Precedence, first decisive rule wins:
//  1. appointments before everything else
//  2. deadlines before benefit tasks
//  3. same fixed kind: resolved target date ascending; appointment date ties
//     break on clock time (missing reads as "00:00"); deadline date ties stay
//     in input order on purpose
//  4. benefit-per-hour descending, when enabled and either side is positive
func (c comparator) compare(a, b Task) int {
	aApp := a.Kind == KindAppointment
	bApp := b.Kind == KindAppointment
	if aApp != bApp {
		if aApp {
			return -1
		}
		return 1
	}
	if aApp && bApp {
		if d := c.compareTarget(a, b); d != 0 {
			return d
		}
		at, bt := clockOf(a), clockOf(b)
		switch {
		case at < bt:
			return -1
		case at > bt:
			return 1
		}
		return 0
	}

	aDead := a.Kind == KindDeadline
	bDead := b.Kind == KindDeadline
	if aDead != bDead {
		if aDead {
			return -1
		}
		return 1
	}
	if aDead && bDead {
		return c.compareTarget(a, b)
	}

	if c.calcPriority {
		av, bv := a.BenefitPerHour(), b.BenefitPerHour()
		if av > 0 || bv > 0 {
			switch {
			case av > bv:
				return -1
			case bv > av:
				return 1
			}
		}
	}
	return 0
}

func (c comparator) compareTarget(a, b Task) int {
	ad, aok := targetDate(a, c.today)
	bd, bok := targetDate(b, c.today)
	if aok != bok {
		// A resolvable date goes first; unresolvable tasks drop out of fixed
		// placement anyway.
		if aok {
			return -1
		}
		return 1
	}
	if !aok {
		return 0
	}
	return ad.Compare(bd)
}

// clockOf is the time-of-day tie-break key. Only appointments can carry a
// clock time; everything else reads as midnight.
func clockOf(t Task) string {
	if t.Kind == KindAppointment && t.Appointment != nil && t.Appointment.At != "" {
		return t.Appointment.At
	}
	return "00:00"
}
