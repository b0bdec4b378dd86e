package ruleset_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratedesk/decisiontree/pkg/driver"
	"github.com/ratedesk/decisiontree/pkg/ruleset"
	"github.com/ratedesk/decisiontree/pkg/types"
)

func newTestStore(t *testing.T) (*ruleset.Store, *driver.Cache) {
	t.Helper()
	cache := driver.NewCache()
	rs := types.NewRuleset("rates", []string{"method", "destination"}, nil, cache)
	return ruleset.New(rs), cache
}

func TestAddRuleRejectsWrongDriverCount(t *testing.T) {
	store, cache := newTestStore(t)
	r := types.NewRule(uuid.New(), uuid.New(), []types.Driver{cache.GetOrCreateString("VOICE")}, nil)
	err := store.AddRule(r)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestAddRuleAcceptsMatchingDriverCount(t *testing.T) {
	store, cache := newTestStore(t)
	r := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("VOICE"), cache.GetOrCreateString("US")}, nil)
	require.NoError(t, store.AddRule(r))

	snap := store.Snapshot()
	assert.Contains(t, snap.Rules, r.RuleID)
}

func TestRemoveRulesIgnoresAbsentIDs(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NotPanics(t, func() {
		store.RemoveRules([]uuid.UUID{uuid.New()})
	})
}

func TestUpdateRulesAtomicallyInsertsAndDeletes(t *testing.T) {
	store, cache := newTestStore(t)
	r1 := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("VOICE"), cache.GetOrCreateString("US")}, nil)
	require.NoError(t, store.AddRule(r1))

	r2 := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("SMS"), cache.GetOrCreateString("UK")}, nil)

	change := map[uuid.UUID]*types.Rule{
		r1.RuleID: nil,
		r2.RuleID: r2,
	}
	require.NoError(t, store.UpdateRules(change))

	snap := store.Snapshot()
	assert.NotContains(t, snap.Rules, r1.RuleID)
	assert.Contains(t, snap.Rules, r2.RuleID)
}

func TestUpdateRulesRejectsMismatchedKeyAndLeavesStateUnchanged(t *testing.T) {
	store, cache := newTestStore(t)
	r1 := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("VOICE"), cache.GetOrCreateString("US")}, nil)
	require.NoError(t, store.AddRule(r1))

	bad := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("SMS"), cache.GetOrCreateString("UK")}, nil)

	change := map[uuid.UUID]*types.Rule{
		uuid.New(): bad, // key does not match bad.RuleID
	}
	err := store.UpdateRules(change)
	assert.ErrorIs(t, err, types.ErrValidation)

	snap := store.Snapshot()
	assert.Len(t, snap.Rules, 1)
}

func TestUpdateRulesRejectsInvalidEntryBeforeMutatingAnything(t *testing.T) {
	store, cache := newTestStore(t)
	good := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("VOICE"), cache.GetOrCreateString("US")}, nil)
	badWrongArity := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("SMS")}, nil)

	change := map[uuid.UUID]*types.Rule{
		good.RuleID:          good,
		badWrongArity.RuleID: badWrongArity,
	}
	err := store.UpdateRules(change)
	assert.ErrorIs(t, err, types.ErrValidation)

	snap := store.Snapshot()
	assert.NotContains(t, snap.Rules, good.RuleID)
}

func TestPutGroupAndGroupRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	g := &types.ValueGroup{ID: uuid.New(), Name: "countries", Values: []string{"US", "UK"}}
	store.PutGroup(g)

	got, ok := store.Group("countries")
	require.True(t, ok)
	assert.Equal(t, g, got)
}

func TestSnapshotIsIndependentOfSubsequentMutation(t *testing.T) {
	store, cache := newTestStore(t)
	r1 := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("VOICE"), cache.GetOrCreateString("US")}, nil)
	require.NoError(t, store.AddRule(r1))

	snap := store.Snapshot()
	require.Len(t, snap.Rules, 1)

	r2 := types.NewRule(uuid.New(), uuid.New(),
		[]types.Driver{cache.GetOrCreateString("SMS"), cache.GetOrCreateString("UK")}, nil)
	require.NoError(t, store.AddRule(r2))

	assert.Len(t, snap.Rules, 1)
}
