package types

import (
	"time"

	"github.com/google/uuid"
)

// Epoch and FarFuture are the default start/end bounds for a rule or
// group that does not specify a validity range (spec §3).
var (
	Epoch     = time.Unix(0, 0).UTC()
	FarFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// Rule is a single weighted decision-tree entry: a driver pattern paired
// with outputs and an optional validity range.
type Rule struct {
	RuleID      uuid.UUID // primary key for equality
	RuleCode    uuid.UUID // links revisions of the same semantic rule
	Drivers     []Driver  // exactly len(Ruleset.DriverNames) entries
	Evaluations []Driver  // optional auxiliary predicate drivers
	Outputs     map[string]string
	Start       time.Time
	End         time.Time
}

// NewRule builds a rule with the default validity range applied.
func NewRule(ruleID, ruleCode uuid.UUID, drivers []Driver, outputs map[string]string) *Rule {
	return &Rule{
		RuleID:   ruleID,
		RuleCode: ruleCode,
		Drivers:  drivers,
		Outputs:  outputs,
		Start:    Epoch,
		End:      FarFuture,
	}
}

// Weight computes the positional specificity score (spec §3): a
// non-wildcard driver at position i (0-indexed, k total) contributes
// 2^(k-1-i); wildcards contribute 0.
func (r *Rule) Weight() uint64 {
	var w uint64
	k := len(r.Drivers)
	for i, d := range r.Drivers {
		if d == nil || isWildcardDriver(d) {
			continue
		}
		w += 1 << uint(k-1-i)
	}
	return w
}

func isWildcardDriver(d Driver) bool {
	return d.Kind() == KindString && d.Value() == Wildcard
}

// InRange reports whether t falls within [Start, End] inclusive.
func (r *Rule) InRange(t time.Time) bool {
	start, end := r.Start, r.End
	if start.IsZero() {
		start = Epoch
	}
	if end.IsZero() {
		end = FarFuture
	}
	return !t.Before(start) && !t.After(end)
}

// IsDuplicateInput reports whether both rules have pairwise-equal drivers.
func (r *Rule) IsDuplicateInput(other *Rule) bool {
	return driversEqual(r.Drivers, other.Drivers)
}

// IsDuplicateEvaluation reports whether both rules have the same
// evaluation drivers.
func (r *Rule) IsDuplicateEvaluation(other *Rule) bool {
	return driversEqual(r.Evaluations, other.Evaluations)
}

// IsDuplicateOutput reports whether both rules have an identical outputs map.
func (r *Rule) IsDuplicateOutput(other *Rule) bool {
	if len(r.Outputs) != len(other.Outputs) {
		return false
	}
	for k, v := range r.Outputs {
		if ov, ok := other.Outputs[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// IsDuplicateDateRange reports whether both rules share start and end.
func (r *Rule) IsDuplicateDateRange(other *Rule) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// IsDuplicateRule reports whether every duplicate predicate holds.
func (r *Rule) IsDuplicateRule(other *Rule) bool {
	return r.IsDuplicateInput(other) &&
		r.IsDuplicateEvaluation(other) &&
		r.IsDuplicateOutput(other) &&
		r.IsDuplicateDateRange(other)
}

func driversEqual(a, b []Driver) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if a[i].Kind() != b[i].Kind() || a[i].CanonicalText() != b[i].CanonicalText() {
			return false
		}
	}
	return true
}
