// Package ruleset wraps types.Ruleset with the invariant checks and
// concurrency discipline described in spec §4.2/§5: writers hold an
// exclusive lock, readers take a shared lock or a snapshot (mirrors
// pkg/store/memory.go's sync.RWMutex-guarded map-of-records shape).
package ruleset

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// Store is the mutable, lockable home for one types.Ruleset.
type Store struct {
	mu sync.RWMutex
	rs *types.Ruleset
}

// New wraps an existing ruleset value (typically produced by NewRuleset
// or a loader) in a Store.
func New(rs *types.Ruleset) *Store {
	return &Store{rs: rs}
}

// Snapshot returns the ruleset's current name/driver schema/cache and a
// shallow copy of its rule and group maps, safe for a reader to range
// over without holding the store's lock.
func (s *Store) Snapshot() *types.Ruleset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := make(map[uuid.UUID]*types.Rule, len(s.rs.Rules))
	for k, v := range s.rs.Rules {
		rules[k] = v
	}
	groups := make(map[string]*types.ValueGroup, len(s.rs.ValueGroups))
	for k, v := range s.rs.ValueGroups {
		groups[k] = v
	}
	return &types.Ruleset{
		Name:            s.rs.Name,
		DriverNames:     s.rs.DriverNames,
		EvaluationNames: s.rs.EvaluationNames,
		Rules:           rules,
		ValueGroups:     groups,
		DriverCache:     s.rs.DriverCache,
	}
}

// DriverCache returns the bound driver cache.
func (s *Store) DriverCache() types.DriverCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rs.DriverCache
}

// DriversByKind delegates to the bound driver cache.
func (s *Store) DriversByKind(k types.Kind) []types.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rs.DriversByKind(k)
}

// validateRule enforces the driver-count invariant (spec §3: "every rule
// has exactly |driverNames| drivers") and the driver-name-count invariant
// (1..32 entries).
func validateRule(rs *types.Ruleset, r *types.Rule) error {
	if r == nil {
		return fmt.Errorf("%w: rule is nil", types.ErrValidation)
	}
	if len(rs.DriverNames) == 0 || len(rs.DriverNames) > types.MaxDrivers {
		return fmt.Errorf("%w: ruleset %s must declare 1..%d driver names, has %d",
			types.ErrValidation, rs.Name, types.MaxDrivers, len(rs.DriverNames))
	}
	if len(r.Drivers) != len(rs.DriverNames) {
		return fmt.Errorf("%w: rule %s has %d drivers, ruleset %s expects %d",
			types.ErrValidation, r.RuleID, len(r.Drivers), rs.Name, len(rs.DriverNames))
	}
	if rs.EvaluationNames != nil && r.Evaluations != nil && len(r.Evaluations) != len(rs.EvaluationNames) {
		return fmt.Errorf("%w: rule %s has %d evaluation drivers, ruleset %s expects %d",
			types.ErrValidation, r.RuleID, len(r.Evaluations), rs.Name, len(rs.EvaluationNames))
	}
	return nil
}

// AddRule inserts a new rule after validating it against the ruleset's
// driver schema.
func (s *Store) AddRule(r *types.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateRule(s.rs, r); err != nil {
		return err
	}
	s.rs.Rules[r.RuleID] = r
	return nil
}

// RemoveRules deletes the given rule ids. Absent ids are silently ignored,
// matching update_rules's "absent value deletes" semantics when used
// standalone.
func (s *Store) RemoveRules(ids []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.rs.Rules, id)
	}
}

// UpdateRules is the atomic merge path (spec §4.2): for each entry,
// absent value (nil) deletes, present value inserts or replaces. All
// entries validate before any mutation lands, so a bad entry never
// leaves partial state (spec §7's "never leave partial state").
func (s *Store) UpdateRules(change map[uuid.UUID]*types.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range change {
		if r == nil {
			continue
		}
		if r.RuleID != id {
			return fmt.Errorf("%w: change entry key %s does not match rule id %s", types.ErrValidation, id, r.RuleID)
		}
		if err := validateRule(s.rs, r); err != nil {
			return err
		}
	}

	for id, r := range change {
		if r == nil {
			delete(s.rs.Rules, id)
			continue
		}
		s.rs.Rules[id] = r
	}
	return nil
}

// Commit atomically lands a set of group and rule deltas under one lock:
// groups/groupDrivers/rules are merged onto a cloned candidate ruleset and
// validated in full before anything is written back, so a failure (a bad
// rule arity, a mismatched ruleset key, ...) leaves the store's rules,
// groups, and driver cache entirely untouched (spec §4.6's "apply all of a
// change in a critical section", §7's "never leave partial state", §9's
// transactionality note). groupDrivers[name] is committed via the group's
// SetSubValues only once validation passes, so a rule-side failure can
// never leave one group's contents updated while the rules map is stale.
func (s *Store) Commit(groups map[string]*types.ValueGroup, groupDrivers map[string][]types.Driver, rules map[uuid.UUID]*types.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidateRules := make(map[uuid.UUID]*types.Rule, len(s.rs.Rules)+len(rules))
	for k, v := range s.rs.Rules {
		candidateRules[k] = v
	}
	for id, r := range rules {
		if r == nil {
			delete(candidateRules, id)
			continue
		}
		if r.RuleID != id {
			return fmt.Errorf("%w: change entry key %s does not match rule id %s", types.ErrValidation, id, r.RuleID)
		}
		candidateRules[id] = r
	}

	candidateGroups := make(map[string]*types.ValueGroup, len(s.rs.ValueGroups)+len(groups))
	for k, v := range s.rs.ValueGroups {
		candidateGroups[k] = v
	}
	for name, g := range groups {
		candidateGroups[name] = g
	}

	candidate := &types.Ruleset{
		Name:            s.rs.Name,
		DriverNames:     s.rs.DriverNames,
		EvaluationNames: s.rs.EvaluationNames,
		Rules:           candidateRules,
		ValueGroups:     candidateGroups,
		DriverCache:     s.rs.DriverCache,
	}
	if err := Validate(candidate); err != nil {
		return err
	}

	for name, g := range groups {
		s.rs.ValueGroups[name] = g
	}
	for name, drivers := range groupDrivers {
		handle := s.rs.DriverCache.GetOrCreateGroup(name)
		handle.SetSubValues(drivers)
	}
	for id, r := range rules {
		if r == nil {
			delete(s.rs.Rules, id)
			continue
		}
		s.rs.Rules[id] = r
	}
	return nil
}

// PutGroup inserts or replaces a value group's values in place (spec
// §4.2: "Value-group updates similarly replace the group's values in
// place").
func (s *Store) PutGroup(g *types.ValueGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rs.ValueGroups[g.Name] = g
}

// Group looks up a value group by name.
func (s *Store) Group(name string) (*types.ValueGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.rs.ValueGroups[name]
	return g, ok
}
