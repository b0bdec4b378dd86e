package types

import "github.com/google/uuid"

// MaxDrivers is the largest number of driver positions a ruleset may
// declare (spec §3: "weight must fit a 64-bit integer with room; the
// source limits to ~32").
const MaxDrivers = 32

// Ruleset is an immutable-after-rebuild collection of rules sharing one
// driver schema (spec §3).
type Ruleset struct {
	Name            string
	DriverNames     []string
	EvaluationNames []string
	Rules           map[uuid.UUID]*Rule
	ValueGroups     map[string]*ValueGroup // keyed by group name
	DriverCache     DriverCache
}

// NewRuleset creates an empty ruleset bound to the given schema and
// driver cache.
func NewRuleset(name string, driverNames, evaluationNames []string, cache DriverCache) *Ruleset {
	return &Ruleset{
		Name:            name,
		DriverNames:     driverNames,
		EvaluationNames: evaluationNames,
		Rules:           make(map[uuid.UUID]*Rule),
		ValueGroups:     make(map[string]*ValueGroup),
		DriverCache:     cache,
	}
}

// DriversByKind delegates to the bound driver cache.
func (rs *Ruleset) DriversByKind(k Kind) []Driver {
	if rs.DriverCache == nil {
		return nil
	}
	return rs.DriverCache.ByKind(k)
}
