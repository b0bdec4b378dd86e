package types

import (
	"time"

	"github.com/google/uuid"
)

// Terminal is the leaf payload of a matched path through the tree: the
// rule it resolves to and that rule's precomputed weight (spec §3).
type Terminal struct {
	RuleID uuid.UUID
	Weight uint64
}

// DateSpan is an inclusive [Start, End] validity window attached to a
// DATED-tree node (spec §4.3).
type DateSpan struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the span, inclusive both ends.
func (d DateSpan) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

// Overlaps reports whether two spans overlap or are adjacent (touch at a
// boundary), the condition DATED-tree insertion uses to decide whether to
// widen an existing node rather than create a new one (spec §4.3, §9.1).
func (d DateSpan) Overlaps(other DateSpan) bool {
	return !d.Start.After(other.End) && !other.Start.After(d.End)
}

// Union returns the smallest span containing both d and other.
func (d DateSpan) Union(other DateSpan) DateSpan {
	start, end := d.Start, d.End
	if other.Start.Before(start) {
		start = other.Start
	}
	if other.End.After(end) {
		end = other.End
	}
	return DateSpan{Start: start, End: end}
}
