package planner

import (
	"testing"
)

func benefitTask(id string, hours float64) Task {
	return Task{
		ID:          id,
		Description: id,
		AssignedTo:  []string{"u1"},
		Kind:        KindBenefit,
		Benefit:     &BenefitSpec{EstimatedHours: hours},
	}
}

func deadlineTask(id string, due Date, hours float64) Task {
	return Task{
		ID:          id,
		Description: id,
		AssignedTo:  []string{"u1"},
		Kind:        KindDeadline,
		Deadline:    &DeadlineSpec{Due: due, Hours: hours},
	}
}

func appointmentTask(id string, on Date, hours float64, at string) Task {
	return Task{
		ID:          id,
		Description: id,
		AssignedTo:  []string{"u1"},
		Kind:        KindAppointment,
		Appointment: &AppointmentSpec{On: on, Hours: hours, At: at},
	}
}

func TestTargetDateManualPin(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}

	tk := benefitTask("a", 2)
	tk.Pin(today.AddDays(4))
	d, ok := targetDate(tk, today)
	if !ok || d != today.AddDays(4) {
		t.Fatalf("pinned target = %v/%v", d, ok)
	}

	// A pin in the past clamps to today instead of scheduling backwards.
	tk.Pin(today.AddDays(-2))
	d, ok = targetDate(tk, today)
	if !ok || d != today {
		t.Fatalf("past pin target = %v/%v, want today", d, ok)
	}
}

func TestTargetDateAppointmentOverdueClamp(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}

	tk := appointmentTask("a", today.AddDays(-1), 1, "")
	d, ok := targetDate(tk, today)
	if !ok || d != today {
		t.Fatalf("overdue appointment target = %v/%v, want today", d, ok)
	}

	tk = appointmentTask("b", today.AddDays(10), 1, "")
	d, ok = targetDate(tk, today)
	if !ok || d != today.AddDays(10) {
		t.Fatalf("future appointment target = %v/%v", d, ok)
	}
}

func TestTargetDateDeadlineBuffer(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}

	tests := []struct {
		name  string
		due   Date
		hours float64
		want  Date
	}{
		{name: "buffer lands in future", due: today.AddDays(10), hours: 3, want: today.AddDays(7)},
		{name: "fractional hours round up", due: today.AddDays(10), hours: 2.5, want: today.AddDays(7)},
		{name: "buffer passed, deadline still open", due: today.AddDays(2), hours: 5, want: today},
		{name: "deadline overdue keeps past start", due: today.AddDays(-3), hours: 2, want: today.AddDays(-5)},
		{name: "zero hours", due: today.AddDays(4), hours: 0, want: today.AddDays(4)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, ok := targetDate(deadlineTask("d", tt.due, tt.hours), today)
			if !ok {
				t.Fatal("expected resolvable date")
			}
			if d != tt.want {
				t.Fatalf("target = %v, want %v", d, tt.want)
			}
		})
	}
}

func TestTargetDateMissingDate(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}

	if _, ok := targetDate(deadlineTask("d", Date{}, 2), today); ok {
		t.Fatal("deadline without due date must not resolve")
	}
	if _, ok := targetDate(appointmentTask("a", Date{}, 2, ""), today); ok {
		t.Fatal("appointment without date must not resolve")
	}
	if _, ok := targetDate(benefitTask("b", 2), today); ok {
		t.Fatal("flexible task has no fixed target")
	}
}

func TestResolveFixedOrdering(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}

	late := appointmentTask("late", today.AddDays(1), 1, "15:00")
	early := appointmentTask("early", today.AddDays(1), 1, "08:30")
	sooner := deadlineTask("sooner", today.AddDays(1), 0)
	dropped := deadlineTask("dropped", Date{}, 2)

	res := resolveFixed([]Task{late, dropped, early, sooner}, today)
	if len(res) != 3 {
		t.Fatalf("got %d resolutions, want 3", len(res))
	}
	got := []string{res[0].task.ID, res[1].task.ID, res[2].task.ID}
	// Same day: the dateless deadline reads as 00:00 and goes first, then the
	// appointments by clock time.
	want := []string{"sooner", "early", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
