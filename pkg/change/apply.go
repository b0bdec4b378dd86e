package change

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ratedesk/decisiontree/pkg/ruleset"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// Apply executes spec §4.6's six-step protocol against store's ruleset:
// validate, resolve group changes and rule changes into candidate deltas
// without mutating anything, then land both under store.Commit's single
// critical section, and mark the change Applied. A failure at any point
// before Commit leaves the store untouched; Commit itself only mutates
// once its own candidate-ruleset validation passes (spec §4.6, §7, §9:
// "never leave partial state", "apply all of a change in a critical
// section"). The caller is responsible for rebuilding the compiled tree
// afterward (step 6) — Apply only mutates the ruleset.
func Apply(store *ruleset.Store, c *types.Change) error {
	if c.State != types.ChangeBuilt {
		return fmt.Errorf("%w: change %s is %s, only a Built change may be applied", types.ErrValidation, c.ID, c.State)
	}
	if err := Validate(c); err != nil {
		return err
	}

	groupsToPut, groupDrivers, err := resolveGroupChanges(store, c.GroupChanges)
	if err != nil {
		return err
	}

	merged, err := mergeRuleChanges(store.Snapshot(), c)
	if err != nil {
		return err
	}

	if err := store.Commit(groupsToPut, groupDrivers, merged); err != nil {
		return err
	}

	c.State = types.ChangeApplied
	c.Audit.AppliedAt = time.Now().UTC()
	return nil
}

// resolveGroupChanges validates every group change against the store's
// current state and, for each non-NONE change, resolves its raw textual
// values into driver handles — without calling PutGroup or SetSubValues.
// Those two calls only land inside store.Commit's single locked critical
// section, once every other fallible step (including the rule-side
// validation in mergeRuleChanges) has also succeeded, so a malformed group
// value or a later rule-change failure never leaves one group updated and
// another (or the rules map) stale (spec §4.6 step 2, §7).
func resolveGroupChanges(store *ruleset.Store, changes []types.ValueGroupChange) (map[string]*types.ValueGroup, map[string][]types.Driver, error) {
	cache := store.DriverCache()
	toPut := make(map[string]*types.ValueGroup)

	for _, gc := range changes {
		if gc.Group == nil {
			continue
		}
		if gc.Type == types.ChangeNone {
			existing, ok := store.Group(gc.Group.Name)
			if !ok || existing.ID != gc.Group.ID {
				return nil, nil, fmt.Errorf("%w: NONE group change references group %q with id %s, which does not exist",
					types.ErrValidation, gc.Group.Name, gc.Group.ID)
			}
			continue
		}
		toPut[gc.Group.Name] = gc.Group
	}

	// Pass 1: every named group gets a cache placeholder, so a forward
	// reference (group A naming group B naming A) resolves below without
	// recursing into an unbounded call stack (spec §4.1).
	for name := range toPut {
		cache.GetOrCreateGroup(name)
	}

	// Pass 2: resolve each group's values into driver handles, but do not
	// commit them onto the group yet.
	driverLists := make(map[string][]types.Driver, len(toPut))
	for name, g := range toPut {
		drivers := make([]types.Driver, 0, len(g.Values))
		for _, v := range g.Values {
			if strings.HasPrefix(v, "VG:") {
				drivers = append(drivers, cache.GetOrCreateGroup(strings.TrimPrefix(v, "VG:")))
				continue
			}
			d, err := cache.FromText(v)
			if err != nil {
				return nil, nil, err
			}
			drivers = append(drivers, d)
		}
		driverLists[name] = drivers
	}

	return toPut, driverLists, nil
}

// mergeRuleChanges combines the change's explicit rule changes with the
// rule changes synthesized from group-binding entries (spec §4.6 step 3)
// into the map ruleset.Store.UpdateRules expects.
func mergeRuleChanges(rs *types.Ruleset, c *types.Change) (map[uuid.UUID]*types.Rule, error) {
	merged := make(map[uuid.UUID]*types.Rule, len(c.RuleChanges))

	for _, rc := range c.RuleChanges {
		if rc.Type == types.ChangeNone || rc.Rule == nil {
			continue
		}
		merged[rc.Rule.RuleID] = rc.Rule
	}

	for _, gc := range c.GroupChanges {
		if gc.Group == nil || len(gc.RuleCodes) == 0 || gc.DriverName == "" {
			continue
		}
		if err := bindGroupIntoRules(rs, gc, merged); err != nil {
			return nil, err
		}
	}

	return merged, nil
}

// bindGroupIntoRules resolves each ruleCode to its current rule, clones
// it, and replaces the driver at the position named gc.DriverName with the
// group's driver (spec §4.6 step 3).
func bindGroupIntoRules(rs *types.Ruleset, gc types.ValueGroupChange, merged map[uuid.UUID]*types.Rule) error {
	idx, err := driverIndex(rs, gc.DriverName)
	if err != nil {
		return err
	}

	groupDriver := rs.DriverCache.GetOrCreateGroup(gc.Group.Name)

	for _, codeText := range gc.RuleCodes {
		code, err := uuid.Parse(codeText)
		if err != nil {
			return fmt.Errorf("%w: group change %q has malformed ruleCode %q: %v", types.ErrValidation, gc.Group.Name, codeText, err)
		}

		rule := findByRuleCode(rs, merged, code)
		if rule == nil {
			return fmt.Errorf("%w: group change %q references ruleCode %s, no such rule", types.ErrValidation, gc.Group.Name, code)
		}

		clone := *rule
		clone.Drivers = append([]types.Driver(nil), rule.Drivers...)
		clone.Drivers[idx] = groupDriver
		merged[clone.RuleID] = &clone
	}
	return nil
}

func driverIndex(rs *types.Ruleset, name string) (int, error) {
	for i, n := range rs.DriverNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: ruleset %s has no driver named %q", types.ErrValidation, rs.Name, name)
}

// findByRuleCode looks a rule up by its RuleCode, preferring an entry
// already staged in merged (so chained group bindings compose) before
// falling back to the ruleset's current snapshot.
func findByRuleCode(rs *types.Ruleset, merged map[uuid.UUID]*types.Rule, code uuid.UUID) *types.Rule {
	for _, r := range merged {
		if r.RuleCode == code {
			return r
		}
	}
	for _, r := range rs.Rules {
		if r.RuleCode == code {
			return r
		}
	}
	return nil
}
