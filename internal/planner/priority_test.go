package planner

import (
	"sort"
	"testing"
)

func TestRequiredHoursDefaults(t *testing.T) {
	t.Parallel()
	if got := (Task{Kind: KindBenefit}).RequiredHours(); got != 0 {
		t.Fatalf("missing payload = %v, want 0", got)
	}
	if got := benefitTask("a", -3).RequiredHours(); got != 0 {
		t.Fatalf("negative hours = %v, want 0", got)
	}
	if got := deadlineTask("d", Date{Year: 2026, Month: 1, Day: 9}, 4).RequiredHours(); got != 4 {
		t.Fatalf("deadline hours = %v, want 4", got)
	}
}

func TestBenefitPerHour(t *testing.T) {
	t.Parallel()
	tk := benefitTask("a", 4)
	tk.Benefit.FinancialBenefit = 100
	if got := tk.BenefitPerHour(); got != 25 {
		t.Fatalf("got %v, want 25", got)
	}

	tk.Benefit.FinancialBenefit = 0
	if got := tk.BenefitPerHour(); got != 0 {
		t.Fatalf("no benefit = %v, want 0", got)
	}

	// Only benefit tasks have a value density.
	if got := deadlineTask("d", Date{Year: 2026, Month: 1, Day: 9}, 4).BenefitPerHour(); got != 0 {
		t.Fatalf("deadline = %v, want 0", got)
	}
}

func sortedIDs(c comparator, tasks []Task) []string {
	sort.SliceStable(tasks, func(i, j int) bool { return c.compare(tasks[i], tasks[j]) < 0 })
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestCompareKindPrecedence(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}
	c := comparator{today: today}

	tasks := []Task{
		benefitTask("flex", 2),
		deadlineTask("due", today.AddDays(5), 1),
		appointmentTask("appt", today.AddDays(9), 1, ""),
	}
	got := sortedIDs(c, tasks)
	want := []string{"appt", "due", "flex"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestCompareAppointmentsByDateThenTime(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}
	c := comparator{today: today}

	tasks := []Task{
		appointmentTask("b", today.AddDays(2), 1, "14:00"),
		appointmentTask("c", today.AddDays(2), 1, ""), // missing time reads as 00:00
		appointmentTask("a", today.AddDays(1), 1, "18:00"),
	}
	got := sortedIDs(c, tasks)
	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestCompareDeadlineTieStaysStable(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}
	c := comparator{today: today}

	// Same resolved date, no time-of-day rule for deadlines: input order wins.
	tasks := []Task{
		deadlineTask("first", today.AddDays(4), 1),
		deadlineTask("second", today.AddDays(4), 1),
	}
	got := sortedIDs(c, tasks)
	if got[0] != "first" || got[1] != "second" {
		t.Fatalf("order = %v, want input order", got)
	}
}

func TestCompareBenefitRanking(t *testing.T) {
	t.Parallel()
	today := Date{Year: 2026, Month: 1, Day: 5}

	rich := benefitTask("rich", 2)
	rich.Benefit.FinancialBenefit = 200 // 100/h
	poor := benefitTask("poor", 10)
	poor.Benefit.FinancialBenefit = 100 // 10/h
	plain := benefitTask("plain", 1)

	// Ranking disabled: input order holds.
	got := sortedIDs(comparator{today: today}, []Task{poor, rich, plain})
	want := []string{"poor", "rich", "plain"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking off: order = %v, want %v", got, want)
		}
	}

	// Ranking enabled: value density descending, zero-benefit tasks last.
	got = sortedIDs(comparator{today: today, calcPriority: true}, []Task{poor, rich, plain})
	want = []string{"rich", "poor", "plain"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking on: order = %v, want %v", got, want)
		}
	}
}
