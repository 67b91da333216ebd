package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"planbot/internal/planner"
	logx "planbot/pkg/logx"
)

func openTestStore(t *testing.T, path string) Store {
	t.Helper()
	s, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func testTask(id string, pos int) planner.Task {
	return planner.Task{
		ID:          id,
		Position:    pos,
		Description: "task " + id,
		AssignedTo:  []string{"u1"},
		Kind:        planner.KindBenefit,
		Benefit:     &planner.BenefitSpec{EstimatedHours: 2},
	}
}

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	s, err := Open(Config{}, logx.Nop())
	if err != nil || s != nil {
		t.Fatalf("disabled store = %v, %v; want nil, nil", s, err)
	}
	s, err = Open(Config{Driver: "none"}, logx.Nop())
	if err != nil || s != nil {
		t.Fatalf("driver none = %v, %v; want nil, nil", s, err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")

	s := openTestStore(t, path)
	if err := s.PutTask(ctx, testTask("b", 2)); err != nil {
		t.Fatalf("PutTask: %v", err)
	}
	if err := s.PutTask(ctx, testTask("a", 1)); err != nil {
		t.Fatalf("PutTask: %v", err)
	}

	list, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("list = %+v, want position order a,b", list)
	}

	got, err := s.GetTask(ctx, "a")
	if err != nil || got.Description != "task a" {
		t.Fatalf("GetTask = %+v, %v", got, err)
	}

	// Survives a reopen.
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	s = openTestStore(t, path)
	list, err = s.ListTasks(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("after reopen: %d tasks, %v", len(list), err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "tasks.json"))

	if err := s.PutTask(ctx, testTask("a", 1)); err != nil {
		t.Fatalf("PutTask: %v", err)
	}
	if err := s.DeleteTask(ctx, "a"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := s.DeleteTask(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
	if _, err := s.GetTask(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted = %v, want ErrNotFound", err)
	}
}

func TestFileStoreRejectsInvalidTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "tasks.json"))

	bad := testTask("a", 1)
	bad.AssignedTo = nil
	if err := s.PutTask(ctx, bad); err == nil {
		t.Fatal("expected validation error for unassigned task")
	}

	bad = testTask("b", 1)
	bad.Deadline = &planner.DeadlineSpec{Hours: 1} // stray payload
	if err := s.PutTask(ctx, bad); err == nil {
		t.Fatal("expected validation error for mixed payloads")
	}
}
