// Package planner is the scheduling engine: it reads an immutable snapshot
// of tasks, weekly availability and filters, and derives the day-by-day
// schedule from scratch.
//
// # Model
//
// Tasks come in three kinds. Appointments and deadlines (and any manually
// pinned task) are "fixed": they land on a single resolved date and are never
// split. Benefit tasks are "flexible": a greedy allocator packs them into the
// remaining daily capacity, splitting across days where needed, walking at
// most a year ahead before reporting a task as unschedulable in-band.
//
// Capacity per day comes from the weekly time-slot configuration; today's
// slots are clipped against the snapshot's wall clock, so capacity for the
// current day shrinks as it passes.
//
// # Contract
//
// Recompute is pure with respect to its inputs: it performs no I/O, mutates
// nothing it was handed, and always produces a complete result. The output
// sequence fully supersedes the previous one. Callers trigger a fresh
// recompute after every relevant mutation and are responsible for not
// handing the engine a torn snapshot.
package planner
