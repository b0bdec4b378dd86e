package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ratedesk/decisiontree/pkg/types"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestDateSpanContainsInclusiveBounds(t *testing.T) {
	s := types.DateSpan{Start: day(1), End: day(10)}
	assert.True(t, s.Contains(day(1)))
	assert.True(t, s.Contains(day(10)))
	assert.True(t, s.Contains(day(5)))
	assert.False(t, s.Contains(day(1).Add(-time.Second)))
	assert.False(t, s.Contains(day(10).Add(time.Second)))
}

func TestDateSpanOverlapsTouchingBoundary(t *testing.T) {
	a := types.DateSpan{Start: day(1), End: day(5)}
	b := types.DateSpan{Start: day(5), End: day(10)}
	assert.True(t, a.Overlaps(b))
}

func TestDateSpanOverlapsDisjoint(t *testing.T) {
	a := types.DateSpan{Start: day(1), End: day(5)}
	b := types.DateSpan{Start: day(6), End: day(10)}
	assert.False(t, a.Overlaps(b))
}

func TestDateSpanUnionTakesOutermostBounds(t *testing.T) {
	a := types.DateSpan{Start: day(3), End: day(5)}
	b := types.DateSpan{Start: day(1), End: day(4)}

	u := a.Union(b)
	assert.True(t, u.Start.Equal(day(1)))
	assert.True(t, u.End.Equal(day(5)))
}
