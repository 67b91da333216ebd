package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"planbot/internal/eventbus"
	"planbot/internal/planner"
	"planbot/internal/storage"
	logx "planbot/pkg/logx"
)

// New builds the service. store may be nil (storage disabled); the planner
// then runs on an empty task list, which keeps the daemon useful for
// availability dry-runs.
func New(cfg Config, in Inputs, store storage.Store, bus eventbus.Bus, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{
		log:    log,
		store:  store,
		bus:    bus,
		engine: planner.New(log, uuid.NewString),
		cfg:    cfg,
		in:     in,
		kick:   make(chan struct{}, 1),
	}
	s.limiter = newLimiter(cfg)
	return s
}

func newLimiter(cfg Config) *rate.Limiter {
	if cfg.MinRecomputeInterval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(cfg.MinRecomputeInterval), 1)
}

// Apply swaps config and snapshot inputs at runtime. The caller follows up
// with a settings event so the schedule catches up.
func (s *Service) Apply(cfg Config, in Inputs) {
	s.mu.Lock()
	s.cfg = cfg
	s.in = in
	s.limiter = newLimiter(cfg)
	s.mu.Unlock()
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh != nil {
		s.mu.Unlock()
		return
	}
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh

	s.c = cron.New()
	_, err := s.c.AddFunc(rolloverSpec, func() {
		s.bus.Publish(eventbus.Event{Type: TopicDayRollover})
	})
	if err != nil {
		s.log.Error("rollover schedule failed", logx.Err(err))
	}
	s.c.Start()
	s.mu.Unlock()

	ch, unsub := s.bus.Subscribe(16)
	s.mu.Lock()
	s.unsub = unsub
	s.mu.Unlock()

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.listen(ch, stopCh)
	}()
	go func() {
		defer s.wg.Done()
		s.worker(ctx, stopCh)
	}()

	s.log.Info("planner service started")
	s.Kick()
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	stopCh := s.stopCh
	s.stopCh = nil
	c := s.c
	s.c = nil
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()

	close(stopCh)
	if c != nil {
		<-c.Stop().Done()
	}
	if unsub != nil {
		unsub()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info("planner service stopped")
	case <-ctx.Done():
		// shutdown continues in background
	}
}

// Kick requests a recompute. Pending requests collapse into one.
func (s *Service) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// listen turns mutation events into recompute requests.
func (s *Service) listen(ch <-chan eventbus.Event, stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			switch ev.Type {
			case TopicTaskUpdated, TopicTaskDeleted, TopicSettingsUpdated, TopicDayRollover:
				s.Kick()
			}
		}
	}
}

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-s.kick:
		}

		s.mu.Lock()
		enabled := s.cfg.Enabled
		lim := s.limiter
		s.mu.Unlock()
		if !enabled {
			continue
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return
			}
		}
		if _, err := s.Recompute(ctx); err != nil {
			s.log.Error("recompute failed", logx.Err(err))
		}
	}
}

// Recompute runs one full pass: snapshot in, schedule out, previous schedule
// superseded. Passes are serialized; concurrent callers queue up behind the
// running one.
func (s *Service) Recompute(ctx context.Context) ([]planner.ScheduleItem, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()

	s.mu.Lock()
	in := s.in
	s.mu.Unlock()

	tasks, err := s.listTasks(ctx)
	if err != nil {
		return nil, err
	}

	// While auto priority is on, pins are not merely ignored: they are
	// cleared from the persisted tasks so flipping the mode off later does
	// not resurrect stale placements.
	if in.Settings.AutoPriority && s.store != nil {
		for i := range tasks {
			if !tasks[i].ManuallyScheduled {
				continue
			}
			tasks[i].Unpin()
			if err := s.store.PutTask(ctx, tasks[i]); err != nil {
				s.log.Warn("pin clear failed", logx.String("task", tasks[i].ID), logx.Err(err))
			}
		}
	}

	snap := planner.Snapshot{
		Tasks:    tasks,
		Settings: in.Settings,
		Filters:  in.Filters,
		UserID:   in.UserID,
		Now:      time.Now(),
	}
	items := s.engine.Recompute(snap)

	s.mu.Lock()
	s.schedule = items
	s.mu.Unlock()

	s.bus.Publish(eventbus.Event{Type: TopicScheduleUpdated, Data: len(items)})
	s.log.Info("schedule recomputed",
		logx.Int("tasks", len(tasks)),
		logx.Int("items", len(items)),
		logx.Duration("took", time.Since(start)),
	)
	return items, nil
}

func (s *Service) listTasks(ctx context.Context) ([]planner.Task, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListTasks(ctx)
}

// Schedule returns a copy of the most recent schedule.
func (s *Service) Schedule() []planner.ScheduleItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]planner.ScheduleItem(nil), s.schedule...)
}
