package storage

import (
	"context"
	"errors"
	"time"

	"planbot/internal/planner"
)

var (
	ErrDisabled = errors.New("storage disabled")
	ErrNotFound = errors.New("task not found")
)

// Config configures the task store.
//
// Driver values:
//   - "file": dependency-free JSON snapshot backend
//   - "sqlite": SQLite database file (build with -tags sqlite)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the persistence API the planner service reads its snapshots from.
// ListTasks returns tasks in the user-chosen order (Position ascending); the
// engine relies on that order being authoritative when auto priority is off.
type Store interface {
	ListTasks(ctx context.Context) ([]planner.Task, error)
	GetTask(ctx context.Context, id string) (planner.Task, error)
	PutTask(ctx context.Context, t planner.Task) error
	DeleteTask(ctx context.Context, id string) error
	Close() error
}
