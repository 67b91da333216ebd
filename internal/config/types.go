package config

import (
	"fmt"
	"strings"

	"planbot/internal/planner"
)

// Config is the on-disk configuration. It carries both daemon plumbing
// (logging, storage, service knobs) and the user-facing schedule settings:
// weekly availability, ordering mode and the prioritization filters. Editing
// the file is a settings change and triggers a fresh recompute via the
// config watcher.
type Config struct {
	Logging  LoggingConfig  `json:"logging"`
	Storage  *StorageConfig `json:"storage,omitempty"`
	Planner  PlannerConfig  `json:"planner"`
	Schedule ScheduleConfig `json:"schedule"`
}

type LoggingConfig struct {
	Level   string     `json:"level,omitempty"`
	Console bool       `json:"console"`
	File    FileConfig `json:"file,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// StorageConfig controls the task store.
//
// Driver values:
//   - "file": dependency-free JSON snapshot backend
//   - "sqlite": SQLite database file (build with -tags sqlite)
//
// If Driver is empty or "none", storage is disabled and the planner runs on
// an empty task list.
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// PlannerConfig controls the scheduling service.
//
// MinRecomputeInterval is a Go duration string; recompute triggers arriving
// faster than this are coalesced into one run. "0s" disables coalescing.
//
// Enabled is a pointer so an omitted field defaults to true.
type PlannerConfig struct {
	Enabled              *bool  `json:"enabled,omitempty"`
	MinRecomputeInterval string `json:"min_recompute_interval,omitempty"`
}

func (c PlannerConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ScheduleConfig is the schedule settings block.
//
// Availability maps lowercase weekday names ("monday".."sunday") to ordered
// time slots. Days without an entry have no capacity.
type ScheduleConfig struct {
	UserID               string                  `json:"user_id,omitempty"`
	AutoPriority         bool                    `json:"auto_priority"`
	CalcPriority         bool                    `json:"calc_priority"`
	Availability         map[string][]SlotConfig `json:"availability"`
	PrioritizedLocations []string                `json:"prioritized_locations,omitempty"`
	PrioritizedUserIDs   []string                `json:"prioritized_user_ids,omitempty"`
}

type SlotConfig struct {
	ID    string `json:"id,omitempty"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// weekdayIndex is Monday-first, matching planner.Settings.Week.
var weekdayIndex = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// Settings validates and converts the schedule block into engine settings.
func (c ScheduleConfig) Settings() (planner.Settings, error) {
	set := planner.Settings{
		CalcPriority: c.CalcPriority,
		AutoPriority: c.AutoPriority,
	}
	for day, slots := range c.Availability {
		idx, ok := weekdayIndex[strings.ToLower(strings.TrimSpace(day))]
		if !ok {
			return planner.Settings{}, fmt.Errorf("schedule.availability: unknown weekday %q", day)
		}
		for i, sl := range slots {
			start, err := planner.ParseClock(sl.Start)
			if err != nil {
				return planner.Settings{}, fmt.Errorf("schedule.availability.%s[%d]: %w", day, i, err)
			}
			end, err := planner.ParseClock(sl.End)
			if err != nil {
				return planner.Settings{}, fmt.Errorf("schedule.availability.%s[%d]: %w", day, i, err)
			}
			if end <= start {
				return planner.Settings{}, fmt.Errorf("schedule.availability.%s[%d]: start %s must precede end %s", day, i, sl.Start, sl.End)
			}
			set.Week[idx] = append(set.Week[idx], planner.TimeSlot{ID: sl.ID, Start: sl.Start, End: sl.End})
		}
	}
	return set, nil
}

// Filters extracts the prioritization filters.
func (c ScheduleConfig) Filters() planner.Filters {
	return planner.Filters{
		PrioritizedLocations: append([]string(nil), c.PrioritizedLocations...),
		PrioritizedUserIDs:   append([]string(nil), c.PrioritizedUserIDs...),
	}
}

// Validate checks the whole file; it is also the watcher's pre-commit hook.
func (c *Config) Validate() error {
	if _, err := c.Schedule.Settings(); err != nil {
		return err
	}
	if _, err := ParseDurationField("planner.min_recompute_interval", c.Planner.MinRecomputeInterval); err != nil {
		return err
	}
	if c.Storage != nil {
		if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	return nil
}
