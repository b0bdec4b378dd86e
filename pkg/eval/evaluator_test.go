package eval_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratedesk/decisiontree/pkg/driver"
	"github.com/ratedesk/decisiontree/pkg/eval"
	"github.com/ratedesk/decisiontree/pkg/tree"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// buildCMERuleset is adapted from the seed scenario from spec §8: five driver
// positions (exec method, exchange group, product, region, asset class)
// and six rules of varying specificity; rule5 is an all-wildcard catch-all.
func buildCMERuleset(t *testing.T) (*types.Ruleset, map[string]uuid.UUID) {
	t.Helper()
	cache := driver.NewCache()
	rs := types.NewRuleset("cme", []string{"method", "group", "product", "region", "asset"}, nil, cache)

	group := cache.GetOrCreateGroup("CMEGroup")
	group.SetSubValues([]types.Driver{cache.GetOrCreateString("CME"), cache.GetOrCreateString("CBOT")})
	rs.ValueGroups["CMEGroup"] = &types.ValueGroup{
		ID: uuid.New(), Name: "CMEGroup", Values: []string{"CME", "CBOT"},
		Start: types.Epoch, End: types.FarFuture,
	}

	ids := map[string]uuid.UUID{}
	mustDrivers := func(values ...string) []types.Driver {
		ds := make([]types.Driver, len(values))
		for i, v := range values {
			if v == "VG:CMEGroup" {
				ds[i] = group
				continue
			}
			ds[i] = cache.GetOrCreateString(v)
		}
		return ds
	}

	add := func(name string, values ...string) {
		id := uuid.New()
		ids[name] = id
		r := types.NewRule(id, uuid.New(), mustDrivers(values...), map[string]string{"name": name})
		rs.Rules[id] = r
	}

	add("rule0", "*", "VG:CMEGroup", "*", "*", "INDEX")
	add("rule1", "*", "CME", "S&P", "*", "INDEX")
	add("rule2", "VOICE", "CME", "ED", "*", "RATE")
	add("rule3", "VOICE", "*", "*", "US", "*")
	add("rule4", "*", "*", "*", "US", "*")
	add("rule5", "*", "*", "*", "*", "*")

	return rs, ids
}

func TestEvaluateSpecificBeatsWildcard(t *testing.T) {
	rs, ids := buildCMERuleset(t)
	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)

	e := eval.New()
	results, err := e.Evaluate(tr, rs, []string{"VOICE", "CME", "ED", "US", "RATE"}, nil, nil, eval.ModeSingle)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ids["rule2"], results[0].RuleID)
}

func TestEvaluateWildcardFallthroughToGroup(t *testing.T) {
	rs, ids := buildCMERuleset(t)
	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)

	e := eval.New()
	results, err := e.Evaluate(tr, rs, []string{"DMA", "CBOT", "ED", "US", "INDEX"}, nil, nil, eval.ModeSingle)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ids["rule0"], results[0].RuleID)
}

func TestEvaluateNoMatchIsEmptyNotError(t *testing.T) {
	cache := driver.NewCache()
	rs := types.NewRuleset("empty", []string{"a"}, nil, cache)
	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)

	e := eval.New()
	results, err := e.Evaluate(tr, rs, []string{"anything"}, nil, nil, eval.ModeSingle)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEvaluateModeAllReturnsOnlyTiedBest(t *testing.T) {
	rs, ids := buildCMERuleset(t)
	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)

	e := eval.New()
	results, err := e.Evaluate(tr, rs, []string{"FOO", "BAR", "BAZ", "US", "QUX"}, nil, nil, eval.ModeAll)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ids["rule4"], results[0].RuleID)
}

func TestEvaluateModeAllResultsIncludesEveryMatch(t *testing.T) {
	rs, _ := buildCMERuleset(t)
	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)

	e := eval.New()
	results, err := e.Evaluate(tr, rs, []string{"FOO", "BAR", "BAZ", "US", "QUX"}, nil, nil, eval.ModeAllResults)
	require.NoError(t, err)
	// rule4 ("*,*,*,US,*") and rule5 ("*,*,*,*,*") both match this input.
	assert.Len(t, results, 2)
}

func TestOwnInputAlwaysMatchesItsOwnRule(t *testing.T) {
	rs, ids := buildCMERuleset(t)
	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)

	e := eval.New()
	results, err := e.Evaluate(tr, rs, []string{"x", "x", "x", "US", "x"}, nil, nil, eval.ModeAllResults)
	require.NoError(t, err)

	found := false
	for _, r := range results {
		if r.RuleID == ids["rule4"] {
			found = true
		}
	}
	assert.True(t, found, "a rule's own input (wildcards replaced by arbitrary values) must match that rule")
}

func TestEvaluationDriverDisjunctiveDefault(t *testing.T) {
	cache := driver.NewCache()
	rs := types.NewRuleset("eval", []string{"a"}, []string{"risk"}, cache)
	id := uuid.New()
	r := types.NewRule(id, uuid.New(), []types.Driver{cache.GetOrCreateString("x")}, map[string]string{})
	r.Evaluations = []types.Driver{cache.GetOrCreateString("high")}
	rs.Rules[id] = r

	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)

	e := eval.New(eval.WithEvaluationLogic(eval.Disjunctive))
	results, err := e.Evaluate(tr, rs, []string{"x"}, []string{"high"}, nil, eval.ModeSingle)
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = e.Evaluate(tr, rs, []string{"x"}, []string{"low"}, nil, eval.ModeSingle)
	require.NoError(t, err)
	assert.Empty(t, results, "evaluation driver must reject a non-matching evaluation input")
}

func TestEvaluateDatedFlavorFiltersByInstant(t *testing.T) {
	cache := driver.NewCache()
	rs := types.NewRuleset("dated", []string{"region"}, nil, cache)

	oldID, newID := uuid.New(), uuid.New()
	old := types.NewRule(oldID, uuid.New(), []types.Driver{cache.GetOrCreateString("US")}, map[string]string{"era": "old"})
	old.Start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	old.End = time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	rs.Rules[oldID] = old

	replacement := types.NewRule(newID, uuid.New(), []types.Driver{cache.GetOrCreateString("US")}, map[string]string{"era": "new"})
	replacement.Start = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	replacement.End = types.FarFuture
	rs.Rules[newID] = replacement

	tr, err := tree.Compile(rs, tree.Dated)
	require.NoError(t, err)

	e := eval.New()

	inRangeOfOld := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	results, err := e.Evaluate(tr, rs, []string{"US"}, nil, &inRangeOfOld, eval.ModeSingle)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, oldID, results[0].RuleID)

	inRangeOfReplacement := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	results, err = e.Evaluate(tr, rs, []string{"US"}, nil, &inRangeOfReplacement, eval.ModeSingle)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, newID, results[0].RuleID)

	beforeEither := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	results, err = e.Evaluate(tr, rs, []string{"US"}, nil, &beforeEither, eval.ModeSingle)
	require.NoError(t, err)
	assert.Empty(t, results, "an instant outside every rule's date range must match nothing")
}

func TestTieBreakDeterministicIsStableAcrossRuns(t *testing.T) {
	rs, _ := buildCMERuleset(t)
	tr, err := tree.Compile(rs, tree.Single)
	require.NoError(t, err)

	e := eval.New(eval.WithTieBreak(eval.SelectDeterministic))
	first, err := e.Evaluate(tr, rs, []string{"FOO", "BAR", "BAZ", "QUX", "QUUX"}, nil, nil, eval.ModeSingle)
	require.NoError(t, err)
	second, err := e.Evaluate(tr, rs, []string{"FOO", "BAR", "BAZ", "QUX", "QUUX"}, nil, nil, eval.ModeSingle)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
