package tree

import (
	"time"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// datedTree keys children by (driver, widened date range); there are no
// failure links, and the evaluator checks time at every step (spec §4.3).
type datedTree struct {
	root *Node
}

// CompileDated builds a DATED tree.
func CompileDated(rs *types.Ruleset) (Tree, error) {
	root := newNode(nil, 0)
	for _, r := range rs.Rules {
		if err := buildDatedPath(root, r); err != nil {
			return nil, err
		}
	}
	return &datedTree{root: root}, nil
}

func (t *datedTree) Flavor() Flavor { return Dated }

func (t *datedTree) EvaluationRoot(_ *time.Time) (*Node, error) {
	return t.root, nil
}
