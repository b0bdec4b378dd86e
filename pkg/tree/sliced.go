package tree

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// slicedTree is a lazily built forest (spec §4.3): the root holds the
// ruleset; each queried instant resolves to a break-point slice, whose
// SINGLE sub-tree is compiled on first use and cached.
type slicedTree struct {
	rs    *types.Ruleset
	cache *sliceCache
}

// CompileSliced builds a SLICED tree. No sub-trees are compiled until
// EvaluationRoot is first called for a given instant.
func CompileSliced(rs *types.Ruleset) (Tree, error) {
	return &slicedTree{rs: rs, cache: newSliceCache()}, nil
}

func (t *slicedTree) Flavor() Flavor { return Sliced }

func (t *slicedTree) EvaluationRoot(at *time.Time) (*Node, error) {
	if at == nil {
		return nil, fmt.Errorf("%w: SLICED flavor requires an evaluation instant", types.ErrValidation)
	}
	instant := *at

	slice := findSlice(t.rs.Rules, instant)
	key := sliceKey(slice)

	if root, ok := t.cache.Get(key); ok {
		return root, nil
	}

	filtered := filterForSlice(t.rs, slice)
	root, err := compileSingleRoot(filtered)
	if err != nil {
		return nil, err
	}
	return t.cache.PutIfAbsent(key, root), nil
}

// findSlice computes the break-point set {rule.Start, rule.End, epoch,
// far-future}, sorts it, and returns the consecutive [start,end) slice
// containing instant.
func findSlice(rules map[uuid.UUID]*types.Rule, instant time.Time) types.DateSpan {
	points := map[int64]time.Time{
		types.Epoch.UnixNano():     types.Epoch,
		types.FarFuture.UnixNano(): types.FarFuture,
	}
	for _, r := range rules {
		start, end := effectiveStart(r.Start), effectiveEnd(r.End)
		points[start.UnixNano()] = start
		points[end.UnixNano()] = end
	}

	sorted := make([]time.Time, 0, len(points))
	for _, t := range points {
		sorted = append(sorted, t)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	for i := 0; i < len(sorted)-1; i++ {
		if !instant.Before(sorted[i]) && instant.Before(sorted[i+1]) {
			return types.DateSpan{Start: sorted[i], End: sorted[i+1]}
		}
	}
	// instant lies in no slice: it is at-or-after the last break-point
	// (far-future bound) or before the first one.
	last := sorted[len(sorted)-1]
	return types.DateSpan{Start: last, End: last}
}

func sliceKey(s types.DateSpan) string {
	return fmt.Sprintf("%d|%d", s.Start.UnixNano(), s.End.UnixNano())
}

// filterForSlice keeps only rules whose [start,end] fully contains slice.
func filterForSlice(rs *types.Ruleset, slice types.DateSpan) *types.Ruleset {
	filtered := types.NewRuleset(rs.Name, rs.DriverNames, rs.EvaluationNames, rs.DriverCache)
	for id, r := range rs.Rules {
		start, end := effectiveStart(r.Start), effectiveEnd(r.End)
		if !start.After(slice.Start) && !end.Before(slice.End) {
			filtered.Rules[id] = r
		}
	}
	return filtered
}

func compileSingleRoot(rs *types.Ruleset) (*Node, error) {
	t, err := CompileSingle(rs)
	if err != nil {
		return nil, err
	}
	return t.(*singleTree).root, nil
}
