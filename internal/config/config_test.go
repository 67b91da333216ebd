package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
logging:
  level: debug
  console: true
storage:
  driver: file
  path: ./data/tasks.json
planner:
  min_recompute_interval: 2s
schedule:
  user_id: me
  auto_priority: true
  calc_priority: true
  availability:
    monday:
      - start: "09:00"
        end: "17:00"
    saturday:
      - start: "10:00"
        end: "12:00"
      - start: "14:00"
        end: "16:00"
  prioritized_locations: [office]
`

func writeConfig(t *testing.T, name, content string) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return NewManager(path)
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.yaml", sampleYAML)
	cfg, err := m.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if !cfg.Planner.IsEnabled() {
		t.Fatal("planner must default to enabled")
	}
	if cfg.Schedule.UserID != "me" || !cfg.Schedule.AutoPriority {
		t.Fatalf("schedule = %+v", cfg.Schedule)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.yaml", "loggin:\n  level: info\nschedule:\n  availability: {}\n")
	if _, err := m.Parse(); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestParseRejectsBadSlot(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{name: "inverted slot", body: "schedule:\n  availability:\n    monday:\n      - start: \"17:00\"\n        end: \"09:00\"\n"},
		{name: "unknown weekday", body: "schedule:\n  availability:\n    mondy:\n      - start: \"09:00\"\n        end: \"17:00\"\n"},
		{name: "bad clock", body: "schedule:\n  availability:\n    monday:\n      - start: \"9am\"\n        end: \"17:00\"\n"},
		{name: "bad interval", body: "planner:\n  min_recompute_interval: fast\nschedule:\n  availability: {}\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := writeConfig(t, "config.yaml", tt.body)
			if _, err := m.Parse(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestScheduleSettingsConversion(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.yaml", sampleYAML)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	set, err := cfg.Schedule.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if len(set.Week[0]) != 1 { // Monday
		t.Fatalf("monday slots = %d, want 1", len(set.Week[0]))
	}
	if len(set.Week[5]) != 2 { // Saturday
		t.Fatalf("saturday slots = %d, want 2", len(set.Week[5]))
	}
	if len(set.Week[6]) != 0 { // Sunday unset
		t.Fatalf("sunday slots = %d, want 0", len(set.Week[6]))
	}
	f := cfg.Schedule.Filters()
	if len(f.PrioritizedLocations) != 1 || f.PrioritizedLocations[0] != "office" {
		t.Fatalf("filters = %+v", f)
	}
}

func TestLoadCommitsAndGet(t *testing.T) {
	t.Parallel()
	m := writeConfig(t, "config.json", `{"schedule":{"availability":{}}}`)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Get() != cfg {
		t.Fatal("Get must return the committed config")
	}
}
