package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"planbot/internal/eventbus"
	"planbot/internal/planner"
	"planbot/internal/storage"
	logx "planbot/pkg/logx"
)

// Bus topics the service consumes and produces. Every mutation that should
// trigger a recompute lands here as an event.
const (
	TopicTaskUpdated     = "task.updated"
	TopicTaskDeleted     = "task.deleted"
	TopicSettingsUpdated = "settings.updated"
	TopicDayRollover     = "day.rollover"
	TopicScheduleUpdated = "schedule.updated"
)

// rolloverSpec fires just after midnight so the schedule never shows
// yesterday as "today".
const rolloverSpec = "0 0 * * *"

// Config controls the scheduling service.
type Config struct {
	Enabled bool
	// MinRecomputeInterval coalesces recompute triggers: bursts of mutations
	// collapse into one pass per interval. 0 disables coalescing.
	MinRecomputeInterval time.Duration
}

// Inputs are the non-task parts of the engine snapshot. They come from the
// config file and are swapped wholesale on reload.
type Inputs struct {
	Settings planner.Settings
	Filters  planner.Filters
	UserID   string
}

// Service owns the current schedule. It serializes recomputes against the
// task store, listens for mutation events, and replaces its held schedule
// wholesale after every pass.
type Service struct {
	log    logx.Logger
	store  storage.Store
	bus    eventbus.Bus
	engine *planner.Engine

	mu       sync.Mutex // guards cfg, in, limiter, schedule, run state
	cfg      Config
	in       Inputs
	limiter  *rate.Limiter
	schedule []planner.ScheduleItem

	runMu sync.Mutex // serializes recompute passes

	c      *cron.Cron
	kick   chan struct{}
	stopCh chan struct{}
	unsub  func()
	wg     sync.WaitGroup
}
