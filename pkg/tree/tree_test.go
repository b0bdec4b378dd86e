package tree_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratedesk/decisiontree/pkg/driver"
	"github.com/ratedesk/decisiontree/pkg/tree"
	"github.com/ratedesk/decisiontree/pkg/types"
)

func newTestRuleset(t *testing.T, driverNames ...string) (*types.Ruleset, *driver.Cache) {
	t.Helper()
	cache := driver.NewCache()
	return types.NewRuleset("t", driverNames, nil, cache), cache
}

func TestCompileUnknownFlavorErrors(t *testing.T) {
	rs, _ := newTestRuleset(t, "a")
	_, err := tree.Compile(rs, tree.Flavor(99))
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestCompileSingleMergesEqualPaths(t *testing.T) {
	rs, cache := newTestRuleset(t, "a", "b")
	id := uuid.New()
	r := types.NewRule(id, uuid.New(), []types.Driver{cache.GetOrCreateString("x"), cache.GetOrCreateString("y")}, nil)
	rs.Rules[id] = r
	id2 := uuid.New()
	r2 := types.NewRule(id2, uuid.New(), []types.Driver{cache.GetOrCreateString("x"), cache.GetOrCreateString("z")}, nil)
	rs.Rules[id2] = r2

	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)
	assert.Equal(t, tree.Single, tr.Flavor())

	root, err := tr.EvaluationRoot(nil)
	require.NoError(t, err)
	assert.Len(t, root.Children, 1)
}

func TestCompileSingleDuplicatePathDifferentRuleErrors(t *testing.T) {
	rs, cache := newTestRuleset(t, "a")
	r1 := types.NewRule(uuid.New(), uuid.New(), []types.Driver{cache.GetOrCreateString("x")}, nil)
	r2 := types.NewRule(uuid.New(), uuid.New(), []types.Driver{cache.GetOrCreateString("x")}, nil)
	rs.Rules[r1.RuleID] = r1
	rs.Rules[r2.RuleID] = r2

	_, err := tree.Compile(rs, tree.Single)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestCompileSingleFailureLinksWildcardFallsThroughToSibling(t *testing.T) {
	rs, cache := newTestRuleset(t, "a")
	specific := types.NewRule(uuid.New(), uuid.New(), []types.Driver{cache.GetOrCreateString("specific")}, nil)
	wildcard := types.NewRule(uuid.New(), uuid.New(), []types.Driver{cache.GetOrCreateString(types.Wildcard)}, nil)
	rs.Rules[specific.RuleID] = specific
	rs.Rules[wildcard.RuleID] = wildcard

	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)
	root, err := tr.EvaluationRoot(nil)
	require.NoError(t, err)

	var specificNode, wildcardNode *tree.Node
	for _, c := range root.Children {
		if c.Driver.Value() == types.Wildcard {
			wildcardNode = c
		} else {
			specificNode = c
		}
	}
	require.NotNil(t, specificNode)
	require.NotNil(t, wildcardNode)
	assert.Same(t, wildcardNode, specificNode.FailureChild)
	assert.Nil(t, wildcardNode.FailureChild)
}

func TestCompileDatedWidensOverlappingRanges(t *testing.T) {
	rs, cache := newTestRuleset(t, "a", "b")
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	may := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// The rules share their first driver and differ in the second, so the
	// shared "x" node is widened while each rule keeps its own leaf.
	r1 := types.NewRule(uuid.New(), uuid.New(), []types.Driver{cache.GetOrCreateString("x"), cache.GetOrCreateString("y")}, nil)
	r1.Start, r1.End = jan, mar
	r2 := types.NewRule(uuid.New(), uuid.New(), []types.Driver{cache.GetOrCreateString("x"), cache.GetOrCreateString("z")}, nil)
	r2.Start, r2.End = feb, may
	rs.Rules[r1.RuleID] = r1
	rs.Rules[r2.RuleID] = r2

	tr, err := tree.Compile(rs, tree.Dated)
	require.NoError(t, err)
	assert.Equal(t, tree.Dated, tr.Flavor())

	root, err := tr.EvaluationRoot(nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 1, "overlapping ranges for the same driver should widen into one node")
	for _, c := range root.Children {
		assert.True(t, c.DateRange.Start.Equal(jan))
		assert.True(t, c.DateRange.End.Equal(may))
	}
}

func TestCompileSlicedIsLazyAndCaches(t *testing.T) {
	rs, cache := newTestRuleset(t, "a")
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r := types.NewRule(uuid.New(), uuid.New(), []types.Driver{cache.GetOrCreateString("x")}, nil)
	r.Start, r.End = jan, jun
	rs.Rules[r.RuleID] = r

	tr, err := tree.Compile(rs, tree.Sliced)
	require.NoError(t, err)
	assert.Equal(t, tree.Sliced, tr.Flavor())

	_, err = tr.EvaluationRoot(nil)
	assert.ErrorIs(t, err, types.ErrValidation, "SLICED requires an evaluation instant")

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	root1, err := tr.EvaluationRoot(&at)
	require.NoError(t, err)
	root2, err := tr.EvaluationRoot(&at)
	require.NoError(t, err)
	assert.Same(t, root1, root2, "repeated lookups in the same slice must hit the cache")
}
