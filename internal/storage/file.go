package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"planbot/internal/planner"
	logx "planbot/pkg/logx"
)

// fileStore is a dependency-free persistence backend: one JSON snapshot file
// holding all tasks, rewritten atomically (tmp + rename) on every mutation.
// Fine for the task counts a personal planner sees.
type fileStore struct {
	log  logx.Logger
	path string

	mu    sync.Mutex
	tasks map[string]planner.Task
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &fileStore{log: log, path: path, tasks: map[string]planner.Task{}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var list []planner.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	for _, t := range list {
		if t.ID == "" {
			continue
		}
		s.tasks[t.ID] = t
	}
	return nil
}

// flushLocked rewrites the snapshot. Call with s.mu held.
func (s *fileStore) flushLocked() error {
	list := s.sortedLocked()
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) sortedLocked() []planner.Task {
	list := make([]planner.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		list = append(list, t)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Position != list[j].Position {
			return list[i].Position < list[j].Position
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (s *fileStore) ListTasks(ctx context.Context) ([]planner.Task, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked(), nil
}

func (s *fileStore) GetTask(ctx context.Context, id string) (planner.Task, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return planner.Task{}, ErrNotFound
	}
	return t, nil
}

func (s *fileStore) PutTask(ctx context.Context, t planner.Task) error {
	_ = ctx
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return s.flushLocked()
}

func (s *fileStore) DeleteTask(ctx context.Context, id string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return s.flushLocked()
}

func (s *fileStore) Close() error { return nil }
