package planner

import (
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	logx "planbot/pkg/logx"
)

// Engine turns task snapshots into day-by-day schedules. It is stateless
// between calls and safe for concurrent use as long as the caller serializes
// recomputes against one task list (a torn snapshot is the caller's problem,
// not the engine's).
type Engine struct {
	log   logx.Logger
	newID func() string
}

// New builds an engine. newID supplies the ScheduleID of every emitted
// fragment; pass a uuid generator in production, a counter in tests. A nil
// newID falls back to a process-local counter.
func New(log logx.Logger, newID func() string) *Engine {
	if log.IsZero() {
		log = logx.Nop()
	}
	if newID == nil {
		var seq atomic.Uint64
		newID = func() string { return "item-" + strconv.FormatUint(seq.Add(1), 10) }
	}
	return &Engine{log: log, newID: newID}
}

// Recompute builds a fresh schedule from the snapshot. The previous schedule
// is superseded wholesale; no item identity survives except the TaskID link.
//
// The pass always runs to completion and never fails: bad field values
// default to zero, tasks missing their kind's date drop out silently, and
// capacity exhaustion surfaces as an in-band unschedulable fragment.
func (e *Engine) Recompute(snap Snapshot) []ScheduleItem {
	start := time.Now()

	tasks := make([]Task, len(snap.Tasks))
	copy(tasks, snap.Tasks)

	// While auto priority is on, manual pins are a stale override: clear them
	// on the working copy before anything else looks at them.
	if snap.Settings.AutoPriority {
		for i := range tasks {
			tasks[i].Unpin()
		}
	}

	pending := tasks[:0:0]
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}

	prioritized, other := partition(pending, snap.Filters, snap.UserID)

	// One shared ledger for the whole pass: the prioritized subset books its
	// capacity first, which is the entire point of the two-tier split.
	a := newAllocator(snap.Settings, snap.Now, e.newID)
	items := e.scheduleSubset(a, prioritized, snap.Settings)
	items = append(items, e.scheduleSubset(a, other, snap.Settings)...)

	e.log.Debug("schedule recomputed",
		logx.Int("tasks", len(pending)),
		logx.Int("prioritized", len(prioritized)),
		logx.Int("items", len(items)),
		logx.Duration("took", time.Since(start)),
	)
	return items
}

// scheduleSubset places one subset: fixed tasks on their resolved dates
// first, then flexible tasks packed into what is left.
func (e *Engine) scheduleSubset(a *allocator, tasks []Task, set Settings) []ScheduleItem {
	var fixed, flexible []Task
	for _, t := range tasks {
		if t.Fixed() {
			fixed = append(fixed, t)
		} else {
			flexible = append(flexible, t)
		}
	}

	items := make([]ScheduleItem, 0, len(tasks))
	for _, r := range resolveFixed(fixed, a.today) {
		items = append(items, a.placeFixed(r.task, r.date))
	}

	if set.AutoPriority {
		c := comparator{today: a.today, calcPriority: set.CalcPriority}
		sort.SliceStable(flexible, func(i, j int) bool {
			return c.compare(flexible[i], flexible[j]) < 0
		})
	}
	for _, t := range flexible {
		items = append(items, a.placeFlexible(t)...)
	}
	return items
}

// partition splits the pending tasks into the prioritized subset and the
// rest. Without active filters or a known user everything lands in "other".
func partition(tasks []Task, f Filters, userID string) (prioritized, other []Task) {
	if !f.Active() || userID == "" {
		return nil, tasks
	}
	for _, t := range tasks {
		if prioritizes(f, t, userID) {
			prioritized = append(prioritized, t)
		} else {
			other = append(other, t)
		}
	}
	return prioritized, other
}

// prioritizes reports whether a task matches the active filters: its location
// is one of the prioritized tags, or the task is shared between the current
// user and every prioritized collaborator.
func prioritizes(f Filters, t Task, userID string) bool {
	for _, loc := range f.PrioritizedLocations {
		if loc != "" && loc == t.Location {
			return true
		}
	}
	if len(f.PrioritizedUserIDs) == 0 {
		return false
	}
	assigned := make(map[string]bool, len(t.AssignedTo))
	for _, id := range t.AssignedTo {
		assigned[id] = true
	}
	if !assigned[userID] {
		return false
	}
	for _, id := range f.PrioritizedUserIDs {
		if !assigned[id] {
			return false
		}
	}
	return true
}
