package app

import (
	"context"
	"fmt"
	"sync"

	"planbot/internal/config"
	"planbot/internal/eventbus"
	"planbot/internal/services/scheduler"
	"planbot/internal/storage"
	logx "planbot/pkg/logx"
)

// App wires the daemon together: config manager, logging, task store, event
// bus and the planner service.
type App struct {
	cm     *config.Manager
	logSvc *logx.Service
	log    logx.Logger
	store  storage.Store
	bus    eventbus.Bus
	sched  *scheduler.Service

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cm := config.NewManager(cfgPath)
	cfg, err := cm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})
	cm.SetLogger(log.With(logx.String("component", "config")))

	store, err := storage.Open(storageConfig(cfg), log.With(logx.String("component", "storage")))
	if err != nil {
		_ = logSvc.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if store == nil {
		log.Warn("storage disabled; planning over an empty task list")
	}

	bus := eventbus.New()

	svcCfg, in, err := schedulerConfig(cfg)
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	sched := scheduler.New(svcCfg, in, store, bus, log.With(logx.String("component", "planner")))

	return &App{
		cm:     cm,
		logSvc: logSvc,
		log:    log,
		store:  store,
		bus:    bus,
		sched:  sched,
	}, nil
}

// Scheduler exposes the planner service (task mutations, current schedule).
func (a *App) Scheduler() *scheduler.Service { return a.sched }

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	a.sched.Start(runCtx)

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		_ = a.cm.Watch(runCtx)
	}()
	ch := a.cm.Subscribe(2)
	go func() {
		defer a.wg.Done()
		defer a.cm.Unsubscribe(ch)
		a.configLoop(runCtx, ch)
	}()

	a.log.Info("planbot started")
	return nil
}

// configLoop fans a committed config reload out to the services and flags it
// as a settings change so the schedule is rebuilt.
func (a *App) configLoop(ctx context.Context, ch chan *config.Config) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-ch:
			if !ok {
				return
			}
			if cfg == nil {
				continue
			}
			a.logSvc.Apply(logx.Config{
				Level:   cfg.Logging.Level,
				Console: cfg.Logging.Console,
				File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
			})
			svcCfg, in, err := schedulerConfig(cfg)
			if err != nil {
				// Validate() runs before commit, so this is unreachable in
				// practice; keep the previous inputs if it ever happens.
				a.log.Error("config apply failed", logx.Err(err))
				continue
			}
			a.sched.Apply(svcCfg, in)
			a.bus.Publish(eventbus.Event{Type: scheduler.TopicSettingsUpdated})
		}
	}
}

func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	a.sched.Stop(ctx)
	a.wg.Wait()
	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Info("planbot stopped")
	return a.logSvc.Close()
}

func storageConfig(cfg *config.Config) storage.Config {
	if cfg.Storage == nil {
		return storage.Config{}
	}
	busy, _ := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	return storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}
}

func schedulerConfig(cfg *config.Config) (scheduler.Config, scheduler.Inputs, error) {
	set, err := cfg.Schedule.Settings()
	if err != nil {
		return scheduler.Config{}, scheduler.Inputs{}, err
	}
	minIv, err := config.ParseDurationField("planner.min_recompute_interval", cfg.Planner.MinRecomputeInterval)
	if err != nil {
		return scheduler.Config{}, scheduler.Inputs{}, err
	}
	return scheduler.Config{
			Enabled:              cfg.Planner.IsEnabled(),
			MinRecomputeInterval: minIv,
		}, scheduler.Inputs{
			Settings: set,
			Filters:  cfg.Schedule.Filters(),
			UserID:   cfg.Schedule.UserID,
		}, nil
}
