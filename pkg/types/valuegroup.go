package types

import (
	"time"

	"github.com/google/uuid"
)

// ValueGroup is a named, possibly nested, set of drivers treated as a
// single matcher (spec §3, §4.1). Values may contain "VG:<name>" markers
// referring recursively to other groups; resolution replaces those
// markers with the actual group driver. Resolution looks the text after
// "VG:" up as a group name only: a "VG:<uuid>" marker resolves to its
// group only where the caller has first rewritten it to the group's name
// (pkg/serialize does this when parsing).
type ValueGroup struct {
	ID     uuid.UUID
	Name   string
	Values []string // raw textual values, including unresolved VG: markers
	Start  time.Time
	End    time.Time
}

// InRange reports whether t falls within the group's validity window.
func (g *ValueGroup) InRange(t time.Time) bool {
	start, end := g.Start, g.End
	if start.IsZero() {
		start = Epoch
	}
	if end.IsZero() {
		end = FarFuture
	}
	return !t.Before(start) && !t.After(end)
}

// Equal reports group equality by name only (spec §8 invariant: "Group-
// driver equality and hashing depend only on name").
func (g *ValueGroup) Equal(other *ValueGroup) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.Name == other.Name
}
