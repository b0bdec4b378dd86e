package ruleset

import (
	"fmt"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// Validate checks the whole ruleset's structural invariants (spec §3,
// §8): driver-name count within bounds, every rule's driver count
// matching, and no two rules sharing a RuleID (guaranteed by the map key
// but checked here for rulesets assembled outside a Store).
func Validate(rs *types.Ruleset) error {
	if rs == nil {
		return fmt.Errorf("%w: ruleset is nil", types.ErrValidation)
	}
	if rs.Name == "" {
		return fmt.Errorf("%w: ruleset name is required", types.ErrValidation)
	}
	if len(rs.DriverNames) == 0 || len(rs.DriverNames) > types.MaxDrivers {
		return fmt.Errorf("%w: ruleset %s must declare 1..%d driver names, has %d",
			types.ErrValidation, rs.Name, types.MaxDrivers, len(rs.DriverNames))
	}

	for id, r := range rs.Rules {
		if r.RuleID != id {
			return fmt.Errorf("%w: rule stored under %s has RuleID %s", types.ErrValidation, id, r.RuleID)
		}
		if err := validateRule(rs, r); err != nil {
			return err
		}
	}

	for name, g := range rs.ValueGroups {
		if g.Name != name {
			return fmt.Errorf("%w: group stored under %q has Name %q", types.ErrValidation, name, g.Name)
		}
	}

	return nil
}
