// Package storage persists task definitions. The scheduling engine never
// touches it directly: the planner service reads a full task snapshot per
// recompute and writes mutations back through the Store interface.
package storage
