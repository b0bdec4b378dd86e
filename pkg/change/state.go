package change

import (
	"fmt"
	"time"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// New starts a change in the Drafting state (spec §4.6's state machine).
func New(id, rulesetName, createdBy string) *types.Change {
	return &types.Change{
		ID:          id,
		RulesetName: rulesetName,
		State:       types.ChangeDrafting,
		Audit: types.Audit{
			CreatedBy: createdBy,
			CreatedAt: time.Now().UTC(),
		},
	}
}

// Build validates c and transitions it from Drafting to Built. Only a
// Built change may be passed to Apply.
func Build(c *types.Change) error {
	if c.State != types.ChangeDrafting {
		return fmt.Errorf("%w: change %s is %s, only a Drafting change may be built", types.ErrValidation, c.ID, c.State)
	}
	if err := Validate(c); err != nil {
		return err
	}
	c.State = types.ChangeBuilt
	return nil
}

// Approve stamps an approver/timestamp onto a Built change's audit
// record. Approval is informational only; it does not gate Apply (spec
// §4.6 states only the Built/Applied transition is enforced).
func Approve(c *types.Change, approvedBy string) error {
	if c.State != types.ChangeBuilt {
		return fmt.Errorf("%w: change %s is %s, cannot approve before it is Built", types.ErrValidation, c.ID, c.State)
	}
	c.Audit.ApprovedBy = approvedBy
	c.Audit.ApprovedAt = time.Now().UTC()
	return nil
}
