package types

import "errors"

// Sentinel error kinds (spec §7). Callers use errors.Is against these to
// distinguish validation/parse failures from lookup misses, which are not
// errors at all (an empty evaluation result is a normal outcome).
var (
	// ErrValidation marks null/empty required fields, driver count
	// mismatches, duplicate change targets, and similar structural
	// problems that abort the current operation without side effects.
	ErrValidation = errors.New("decisiontree: validation error")

	// ErrParse marks malformed canonical driver text (e.g. "DR:" with no
	// pipe), invalid instants, or invalid integers.
	ErrParse = errors.New("decisiontree: parse error")

	// ErrNotFound marks a lookup miss for a named ruleset in a
	// pkg/persist store. It is distinct from an empty evaluation result,
	// which is never an error.
	ErrNotFound = errors.New("decisiontree: not found")
)
