package planner

import (
	"errors"
	"fmt"
	"time"
)

// TaskKind is the closed set of task variants. Exactly one payload struct is
// populated per kind; SetKind clears the payloads of the previous kind.
type TaskKind uint8

const (
	// KindBenefit is an effort/benefit driven task with no date of its own.
	// These are the flexible tasks the allocator splits across days.
	KindBenefit TaskKind = iota + 1
	// KindDeadline must be finished by a due date; placement is buffered
	// backwards from it.
	KindDeadline
	// KindAppointment happens on one specific day, optionally at a clock time.
	KindAppointment
)

func (k TaskKind) String() string {
	switch k {
	case KindBenefit:
		return "benefit"
	case KindDeadline:
		return "deadline"
	case KindAppointment:
		return "appointment"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseTaskKind maps the persisted kind string back to its TaskKind.
func ParseTaskKind(s string) (TaskKind, error) {
	switch s {
	case "benefit":
		return KindBenefit, nil
	case "deadline":
		return KindDeadline, nil
	case "appointment":
		return KindAppointment, nil
	default:
		return 0, fmt.Errorf("unknown task kind %q", s)
	}
}

func (k TaskKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *TaskKind) UnmarshalText(b []byte) error {
	p, err := ParseTaskKind(string(b))
	if err != nil {
		return err
	}
	*k = p
	return nil
}

// BenefitSpec is the payload of a KindBenefit task.
type BenefitSpec struct {
	EstimatedHours   float64 `json:"estimated_hours"`
	FinancialBenefit float64 `json:"financial_benefit,omitempty"`
}

// DeadlineSpec is the payload of a KindDeadline task.
type DeadlineSpec struct {
	Due   Date    `json:"due"`
	Hours float64 `json:"hours"`
}

// AppointmentSpec is the payload of a KindAppointment task.
type AppointmentSpec struct {
	On    Date    `json:"on"`
	Hours float64 `json:"hours"`
	At    string  `json:"at,omitempty"` // HH:MM, optional
}

// Task is a persisted task definition. The engine never mutates tasks it is
// handed; it works on its own copies.
type Task struct {
	ID          string   `json:"id"`
	Position    int      `json:"position"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	OwnerID     string   `json:"owner_id,omitempty"`
	AssignedTo  []string `json:"assigned_to"`
	Notes       string   `json:"notes,omitempty"`
	Location    string   `json:"location,omitempty"`

	Kind        TaskKind         `json:"kind"`
	Benefit     *BenefitSpec     `json:"benefit,omitempty"`
	Deadline    *DeadlineSpec    `json:"deadline,omitempty"`
	Appointment *AppointmentSpec `json:"appointment,omitempty"`

	// ManuallyScheduled and ManualDate are set and cleared together: a task is
	// pinned only while a manual date exists, and the pin dissolves when the
	// task content is edited or auto priority is (re-)enabled.
	ManuallyScheduled bool `json:"manually_scheduled,omitempty"`
	ManualDate        Date `json:"manual_date,omitempty"`
}

// SetKind switches the task variant and clears the payloads that no longer
// belong to it. The caller fills in the new kind's payload afterwards.
func (t *Task) SetKind(k TaskKind) {
	t.Kind = k
	if k != KindBenefit {
		t.Benefit = nil
	}
	if k != KindDeadline {
		t.Deadline = nil
	}
	if k != KindAppointment {
		t.Appointment = nil
	}
}

// Pin manually schedules the task on the given date.
func (t *Task) Pin(d Date) {
	if d.IsZero() {
		t.Unpin()
		return
	}
	t.ManuallyScheduled = true
	t.ManualDate = d
}

// Unpin removes a manual placement.
func (t *Task) Unpin() {
	t.ManuallyScheduled = false
	t.ManualDate = Date{}
}

// Pinned reports whether the task carries a usable manual placement.
func (t Task) Pinned() bool {
	return t.ManuallyScheduled && !t.ManualDate.IsZero()
}

// Fixed reports whether the task is placed on a single resolved date rather
// than packed into free capacity.
func (t Task) Fixed() bool {
	return t.Kind == KindAppointment || t.Kind == KindDeadline || t.Pinned()
}

// Validate checks the variant invariant: the task carries exactly the payload
// of its own kind, with sane values.
func (t Task) Validate() error {
	if t.ID == "" {
		return errors.New("task id required")
	}
	if len(t.AssignedTo) == 0 {
		return errors.New("task must be assigned to at least one user")
	}
	if t.ManuallyScheduled != !t.ManualDate.IsZero() {
		return errors.New("manual flag and manual date must be set together")
	}
	switch t.Kind {
	case KindBenefit:
		if t.Benefit == nil || t.Deadline != nil || t.Appointment != nil {
			return errors.New("benefit task must carry exactly the benefit payload")
		}
		if t.Benefit.EstimatedHours < 0 {
			return errors.New("estimated hours must be >= 0")
		}
	case KindDeadline:
		if t.Deadline == nil || t.Benefit != nil || t.Appointment != nil {
			return errors.New("deadline task must carry exactly the deadline payload")
		}
		if t.Deadline.Hours < 0 {
			return errors.New("deadline hours must be >= 0")
		}
	case KindAppointment:
		if t.Appointment == nil || t.Benefit != nil || t.Deadline != nil {
			return errors.New("appointment task must carry exactly the appointment payload")
		}
		if t.Appointment.Hours < 0 {
			return errors.New("appointment hours must be >= 0")
		}
		if t.Appointment.At != "" {
			if _, err := ParseClock(t.Appointment.At); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown task kind %d", t.Kind)
	}
	return nil
}

// TimeSlot is one availability window within a weekday.
type TimeSlot struct {
	ID    string `json:"id,omitempty"`
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM, after Start
}

// Settings holds the weekly availability and ordering knobs.
type Settings struct {
	// Week is Monday-first: Week[0] is Monday, Week[6] is Sunday.
	Week [7][]TimeSlot

	// CalcPriority enables the benefit-per-hour tie-break between flexible tasks.
	CalcPriority bool

	// AutoPriority means flexible tasks are auto-sorted and manual pins are
	// suppressed. When false the caller-provided task order is authoritative.
	AutoPriority bool
}

// SlotsFor returns the availability windows configured for d's weekday.
func (s Settings) SlotsFor(d Date) []TimeSlot {
	return s.Week[mondayIndex(d.Weekday())]
}

// mondayIndex converts Go's Sunday-first weekday to the Monday-first index
// the weekly settings use.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// Filters selects the subset of tasks that gets first claim on capacity.
type Filters struct {
	PrioritizedLocations []string
	PrioritizedUserIDs   []string
}

// Active reports whether any filter is set.
func (f Filters) Active() bool {
	return len(f.PrioritizedLocations) > 0 || len(f.PrioritizedUserIDs) > 0
}

// Snapshot is the immutable input of one recompute. The engine reads it and
// returns a fresh schedule; it never writes back.
type Snapshot struct {
	Tasks    []Task
	Settings Settings
	Filters  Filters
	UserID   string    // identity of the current user, may be empty
	Now      time.Time // wall clock; today's capacity shrinks as it advances
}

// ScheduleItem is one placed (or unplaceable) fragment of the derived
// schedule. The whole sequence is rebuilt on every recompute; only TaskID
// survives as a stable reference.
type ScheduleItem struct {
	TaskID      string
	ScheduleID  string
	Description string
	Kind        TaskKind
	PlannedDate Date    // zero when the fragment could not be placed
	Hours       float64 // hours consumed on PlannedDate

	// Carried-through display fields.
	FinancialBenefit  float64
	EstimatedHours    float64
	FixedTime         string
	DeadlineDate      Date
	AppointmentDate   Date
	AssignedTo        []string
	Notes             string
	Location          string
	ManuallyScheduled bool
}

// Placed reports whether the fragment landed on a concrete day.
func (it ScheduleItem) Placed() bool { return !it.PlannedDate.IsZero() }
