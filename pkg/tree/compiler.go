package tree

import (
	"fmt"
	"time"

	"github.com/ratedesk/decisiontree/pkg/types"
)

func isWildcardDriver(d types.Driver) bool {
	return d != nil && d.Kind() == types.KindString && d.Value() == types.Wildcard
}

// buildPath walks/creates the driver path for one rule into root (SINGLE
// semantics: children keyed purely by driver identity, date ranges
// ignored for matching though still recorded on the terminal for
// introspection). Returns an error if the path's leaf already carries a
// terminal for a different rule (spec §9.4's "ResultNode.equals always
// false" bug, closed here by failing loudly instead of silently
// duplicating).
func buildPath(root *Node, r *types.Rule) error {
	n := root
	for i, d := range r.Drivers {
		key := nodeKey(d, nil)
		n = n.addChild(key, d, i+1)
	}
	return setTerminal(n, r)
}

func setTerminal(leaf *Node, r *types.Rule) error {
	if leaf.Terminal != nil && leaf.Terminal.RuleID != r.RuleID {
		return fmt.Errorf("%w: rule %s and rule %s share an identical driver path; "+
			"disambiguate with distinct drivers or use the DATED/SLICED flavor",
			types.ErrValidation, leaf.Terminal.RuleID, r.RuleID)
	}
	leaf.Terminal = &types.Terminal{RuleID: r.RuleID, Weight: r.Weight()}
	return nil
}

// buildDatedPath inserts a rule's path using DATED semantics: children
// are keyed by (driver, range); a driver whose range overlaps or is
// adjacent to an existing child's range is reused and that child's range
// is widened to the union, rather than the driver repeating as a sibling
// (spec §4.3, §9.1).
func buildDatedPath(root *Node, r *types.Rule) error {
	span := types.DateSpan{Start: effectiveStart(r.Start), End: effectiveEnd(r.End)}
	n := root
	for i, d := range r.Drivers {
		n = datedChild(n, d, span, i+1)
	}
	return setTerminal(n, r)
}

func effectiveStart(t time.Time) time.Time {
	if t.IsZero() {
		return types.Epoch
	}
	return t
}

func effectiveEnd(t time.Time) time.Time {
	if t.IsZero() {
		return types.FarFuture
	}
	return t
}

// datedChild finds a child of n whose driver equals d and whose range
// overlaps-or-touches span, widening it; otherwise creates a new child
// carrying span verbatim.
func datedChild(n *Node, d types.Driver, span types.DateSpan, level int) *Node {
	wantKey := driverIdentityKey(d)
	for _, c := range n.Children {
		if driverIdentityKey(c.Driver) != wantKey {
			continue
		}
		if c.DateRange != nil && c.DateRange.Overlaps(span) {
			widened := c.DateRange.Union(span)
			c.DateRange = &widened
			return c
		}
	}
	child := newNode(d, level)
	s := span
	child.DateRange = &s
	key := nodeKey(d, &s)
	n.Children[key] = child
	if d.Kind() != types.KindString {
		n.Deterministic = false
	}
	return child
}

func driverIdentityKey(d types.Driver) string {
	return d.Kind().String() + "\x00" + d.CanonicalText()
}
