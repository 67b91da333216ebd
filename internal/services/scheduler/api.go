package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"

	"planbot/internal/eventbus"
	"planbot/internal/planner"
	"planbot/internal/storage"
)

// ErrAutoPriority rejects manual placement while auto priority controls the
// ordering; a pin taken now would be cleared by the very next recompute.
var ErrAutoPriority = errors.New("manual scheduling is disabled while auto priority is on")

var errNoStore = errors.New("no task store configured")

// UpsertTask creates or replaces a task definition. Editing a pinned task's
// content dissolves the pin: a manual placement only stays valid for the
// content it was made for.
func (s *Service) UpsertTask(ctx context.Context, t planner.Task) error {
	if s.store == nil {
		return errNoStore
	}
	if err := t.Validate(); err != nil {
		return err
	}

	prev, err := s.store.GetTask(ctx, t.ID)
	switch {
	case err == nil:
		if contentFingerprint(prev) != contentFingerprint(t) {
			t.Unpin()
		}
	case errors.Is(err, storage.ErrNotFound):
		// new task: append to the end of the user order unless placed
		if t.Position == 0 {
			t.Position = s.nextPosition(ctx)
		}
	default:
		return err
	}

	if err := s.store.PutTask(ctx, t); err != nil {
		return err
	}
	s.bus.Publish(eventbus.Event{Type: TopicTaskUpdated, Data: t.ID})
	return nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if s.store == nil {
		return errNoStore
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(eventbus.Event{Type: TopicTaskDeleted, Data: id})
	return nil
}

// CompleteTask toggles completion. Completed tasks stay in the store but
// drop out of the schedule.
func (s *Service) CompleteTask(ctx context.Context, id string, done bool) error {
	if s.store == nil {
		return errNoStore
	}
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	t.Completed = done
	if err := s.store.PutTask(ctx, t); err != nil {
		return err
	}
	s.bus.Publish(eventbus.Event{Type: TopicTaskUpdated, Data: id})
	return nil
}

// PinTask records a manual drag onto a concrete day. A zero date unpins.
func (s *Service) PinTask(ctx context.Context, id string, on planner.Date) error {
	if s.store == nil {
		return errNoStore
	}
	s.mu.Lock()
	auto := s.in.Settings.AutoPriority
	s.mu.Unlock()
	if auto && !on.IsZero() {
		return ErrAutoPriority
	}

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	t.Pin(on)
	if err := s.store.PutTask(ctx, t); err != nil {
		return err
	}
	s.bus.Publish(eventbus.Event{Type: TopicTaskUpdated, Data: id})
	return nil
}

// Reorder applies a user-chosen order: the listed ids get positions 1..n.
// Only meaningful while auto priority is off, but harmless otherwise.
func (s *Service) Reorder(ctx context.Context, ids []string) error {
	if s.store == nil {
		return errNoStore
	}
	for i, id := range ids {
		t, err := s.store.GetTask(ctx, id)
		if err != nil {
			return err
		}
		t.Position = i + 1
		if err := s.store.PutTask(ctx, t); err != nil {
			return err
		}
	}
	s.bus.Publish(eventbus.Event{Type: TopicTaskUpdated})
	return nil
}

func (s *Service) nextPosition(ctx context.Context) int {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return 1
	}
	maxPos := 0
	for _, t := range tasks {
		if t.Position > maxPos {
			maxPos = t.Position
		}
	}
	return maxPos + 1
}

// contentFingerprint hashes the task with its ordering and placement state
// masked out, leaving only the user-visible content.
func contentFingerprint(t planner.Task) uint64 {
	t.Position = 0
	t.Completed = false
	t.Unpin()
	b, err := json.Marshal(t)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}
