package tree

import (
	"time"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// singleTree ignores date ranges for matching; a rule's range still
// reaches the terminal but plays no part in traversal (spec §4.3).
type singleTree struct {
	root *Node
}

// CompileSingle builds a SINGLE tree: one rule per path, equal driver
// paths merged, failure links precomputed once at the end.
func CompileSingle(rs *types.Ruleset) (Tree, error) {
	root := newNode(nil, 0)
	for _, r := range rs.Rules {
		if err := buildPath(root, r); err != nil {
			return nil, err
		}
	}
	buildFailureLinks(root)
	return &singleTree{root: root}, nil
}

func (t *singleTree) Flavor() Flavor { return Single }

func (t *singleTree) EvaluationRoot(_ *time.Time) (*Node, error) {
	return t.root, nil
}
