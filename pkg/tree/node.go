// Package tree implements the k-level matcher tree compiler and its three
// flavors (SINGLE, DATED, SLICED) described in spec §4.3.
package tree

import (
	"fmt"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// Flavor selects a tree compilation/lookup strategy (spec §4.3).
type Flavor int

const (
	// Single ignores date ranges for matching; children are keyed by
	// driver identity alone. Failure links are precomputed once.
	Single Flavor = iota
	// Dated keys children by (driver, widened date range); evaluation
	// checks time at every step, no failure links.
	Dated
	// Sliced lazily compiles a Single sub-tree per time slice and caches
	// it in a bounded LRU.
	Sliced
)

func (f Flavor) String() string {
	switch f {
	case Single:
		return "single"
	case Dated:
		return "dated"
	case Sliced:
		return "sliced"
	default:
		return "unknown"
	}
}

// Node is one level of the compiled matcher tree (spec §3's "Tree node").
type Node struct {
	Driver   types.Driver // nil only for the synthetic root
	Level    int
	Children map[string]*Node // keyed by nodeKey(driver, span)

	// FailureChild is the precomputed wildcard fall-through edge, set
	// only in SINGLE trees (spec §4.4).
	FailureChild *Node

	// DateRange is the node's current (possibly widened) validity
	// window, set only in DATED trees (spec §4.3).
	DateRange *types.DateSpan

	// Terminal is non-nil only on a leaf produced by a complete driver
	// path (spec §3's "Result node").
	Terminal *types.Terminal

	// Deterministic is true iff every child's driver is a String driver
	// (spec §4.3). pkg/eval does not read it: evaluation tests every
	// child's driver rather than looking the input up in Children.
	Deterministic bool
}

func newNode(driver types.Driver, level int) *Node {
	return &Node{
		Driver:        driver,
		Level:         level,
		Children:      make(map[string]*Node),
		Deterministic: true,
	}
}

// nodeKey computes the child map key for a driver, optionally combined
// with a date span (DATED flavor keys by (driver, range) per spec §4.3).
func nodeKey(d types.Driver, span *types.DateSpan) string {
	if span == nil {
		return d.Kind().String() + "\x00" + d.CanonicalText()
	}
	return fmt.Sprintf("%c\x00%s\x00%d\x00%d", rune(d.Kind()), d.CanonicalText(),
		span.Start.UnixNano(), span.End.UnixNano())
}

// addChild inserts or returns the existing child keyed by key, updating
// the parent's determinism flag (spec §4.3: "Adding a non-string child
// flips it to non-deterministic").
func (n *Node) addChild(key string, driver types.Driver, level int) *Node {
	if existing, ok := n.Children[key]; ok {
		return existing
	}
	child := newNode(driver, level)
	n.Children[key] = child
	if driver.Kind() != types.KindString {
		n.Deterministic = false
	}
	return child
}
