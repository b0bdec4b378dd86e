// Package change implements the change engine (spec §4.6): validating and
// applying an atomic set of rule/value-group mutations to a ruleset, under
// the Drafting -> Built -> Applied audit lifecycle.
package change

import (
	"fmt"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// Validate enforces spec §4.6 step 1: no two rule changes target the same
// ruleCode, and no two group changes target the same group name.
func Validate(c *types.Change) error {
	if c == nil {
		return fmt.Errorf("%w: change is nil", types.ErrValidation)
	}

	seenCodes := make(map[string]bool, len(c.RuleChanges))
	for _, rc := range c.RuleChanges {
		if rc.Rule == nil {
			continue
		}
		code := rc.Rule.RuleCode.String()
		if seenCodes[code] {
			return fmt.Errorf("%w: change %s has two rule changes for ruleCode %s", types.ErrValidation, c.ID, code)
		}
		seenCodes[code] = true
	}

	seenGroups := make(map[string]bool, len(c.GroupChanges))
	for _, gc := range c.GroupChanges {
		if gc.Group == nil {
			continue
		}
		if seenGroups[gc.Group.Name] {
			return fmt.Errorf("%w: change %s has two group changes for group %q", types.ErrValidation, c.ID, gc.Group.Name)
		}
		seenGroups[gc.Group.Name] = true
	}

	return nil
}
