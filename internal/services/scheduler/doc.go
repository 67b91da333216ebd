// Package scheduler is the long-lived owner of the derived schedule.
//
// The pure engine lives in internal/planner; this service supplies what the
// engine deliberately does not have: a task store to snapshot from, an id
// generator, serialization of recompute passes, and the triggers. Every
// relevant mutation (task edits, settings reload, the midnight rollover)
// arrives as a bus event and is answered with exactly one fresh recompute,
// with bursts coalesced through a rate limiter.
package scheduler
