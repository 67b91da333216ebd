// Package logx wraps zerolog behind a small Logger facade so components can
// log through a value that stays live across runtime config changes.
//
// The zero Logger is a safe no-op, which keeps log plumbing optional in
// library code and trivial to silence in tests.
package logx
