package types_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ratedesk/decisiontree/pkg/types"
)

type fakeDriver struct {
	kind  types.Kind
	value string
}

func (d fakeDriver) Value() string            { return d.value }
func (d fakeDriver) Kind() types.Kind         { return d.kind }
func (d fakeDriver) Matches(input string) bool { return d.value == input }
func (d fakeDriver) CanonicalText() string    { return d.value }

func stringDriver(v string) types.Driver {
	return fakeDriver{kind: types.KindString, value: v}
}

func TestRuleWeightCountsNonWildcardDriversByPosition(t *testing.T) {
	r := types.NewRule(uuid.New(), uuid.New(), []types.Driver{
		stringDriver("VOICE"),
		stringDriver(types.Wildcard),
		stringDriver("US"),
	}, nil)
	// k=3: position 0 contributes 2^2=4, position 1 (wildcard) contributes 0,
	// position 2 contributes 2^0=1.
	assert.Equal(t, uint64(5), r.Weight())
}

func TestRuleWeightAllWildcardsIsZero(t *testing.T) {
	r := types.NewRule(uuid.New(), uuid.New(), []types.Driver{
		stringDriver(types.Wildcard),
		stringDriver(types.Wildcard),
	}, nil)
	assert.Equal(t, uint64(0), r.Weight())
}

func TestRuleWeightAllSpecificIsFullMask(t *testing.T) {
	r := types.NewRule(uuid.New(), uuid.New(), []types.Driver{
		stringDriver("A"), stringDriver("B"), stringDriver("C"),
	}, nil)
	assert.Equal(t, uint64(7), r.Weight())
}

func TestNewRuleDefaultsToEpochFarFutureRange(t *testing.T) {
	r := types.NewRule(uuid.New(), uuid.New(), nil, nil)
	assert.True(t, r.Start.Equal(types.Epoch))
	assert.True(t, r.End.Equal(types.FarFuture))
}

func TestRuleInRangeInclusiveBounds(t *testing.T) {
	r := types.NewRule(uuid.New(), uuid.New(), nil, nil)
	r.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.End = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, r.InRange(r.Start))
	assert.True(t, r.InRange(r.End))
	assert.False(t, r.InRange(r.Start.Add(-time.Second)))
	assert.False(t, r.InRange(r.End.Add(time.Second)))
}

func TestRuleInRangeTreatsZeroValueAsOpenBounds(t *testing.T) {
	r := &types.Rule{}
	assert.True(t, r.InRange(time.Now()))
}

func TestIsDuplicateInputComparesDriversByCanonicalText(t *testing.T) {
	a := types.NewRule(uuid.New(), uuid.New(), []types.Driver{stringDriver("US")}, nil)
	b := types.NewRule(uuid.New(), uuid.New(), []types.Driver{stringDriver("US")}, nil)
	c := types.NewRule(uuid.New(), uuid.New(), []types.Driver{stringDriver("UK")}, nil)

	assert.True(t, a.IsDuplicateInput(b))
	assert.False(t, a.IsDuplicateInput(c))
}

func TestIsDuplicateOutputComparesMapContents(t *testing.T) {
	a := types.NewRule(uuid.New(), uuid.New(), nil, map[string]string{"rate": "1.0"})
	b := types.NewRule(uuid.New(), uuid.New(), nil, map[string]string{"rate": "1.0"})
	c := types.NewRule(uuid.New(), uuid.New(), nil, map[string]string{"rate": "2.0"})

	assert.True(t, a.IsDuplicateOutput(b))
	assert.False(t, a.IsDuplicateOutput(c))
}

func TestIsDuplicateRuleRequiresEveryPredicate(t *testing.T) {
	base := types.NewRule(uuid.New(), uuid.New(), []types.Driver{stringDriver("US")}, map[string]string{"rate": "1.0"})
	same := types.NewRule(uuid.New(), uuid.New(), []types.Driver{stringDriver("US")}, map[string]string{"rate": "1.0"})
	differentOutput := types.NewRule(uuid.New(), uuid.New(), []types.Driver{stringDriver("US")}, map[string]string{"rate": "2.0"})

	assert.True(t, base.IsDuplicateRule(same))
	assert.False(t, base.IsDuplicateRule(differentOutput))
}
