package eval

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ratedesk/decisiontree/pkg/tree"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// Result is one matched rule and the weight it matched with.
type Result struct {
	RuleID uuid.UUID
	Weight uint64
}

// Evaluator walks a compiled Tree against an input vector.
type Evaluator struct {
	tieBreak  TieBreak
	evalLogic EvalLogic
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTieBreak overrides the default ModeSingle tie-break strategy.
func WithTieBreak(t TieBreak) Option {
	return func(e *Evaluator) { e.tieBreak = t }
}

// WithEvaluationLogic overrides the default evaluation-driver combinator.
func WithEvaluationLogic(l EvalLogic) Option {
	return func(e *Evaluator) { e.evalLogic = l }
}

// New builds an Evaluator with SelectDeterministic/Disjunctive defaults.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		tieBreak:  SelectDeterministic,
		evalLogic: Disjunctive,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate matches inputs (one value per rs.DriverNames position) against
// tr, optionally filters by evalInputs (one value per rs.EvaluationNames
// position), and returns results per mode (spec §4.4).
//
// Matching is exhaustive backtracking (see SPEC_FULL.md's open question
// #6): at every level the walk follows every child whose driver matches
// the input value, plus that node's own wildcard child unconditionally.
// spec §8 states this yields the same best-weight result set as a
// failure-link walk, so it is used directly rather than threading through
// Node.FailureChild.
func (e *Evaluator) Evaluate(tr tree.Tree, rs *types.Ruleset, inputs, evalInputs []string, at *time.Time, mode Mode) ([]Result, error) {
	root, err := tr.EvaluationRoot(at)
	if err != nil {
		return nil, err
	}

	var terminals []*types.Terminal
	collectTerminals(root, inputs, tr.Flavor(), at, 0, &terminals)

	candidates := make([]Result, 0, len(terminals))
	for _, t := range terminals {
		rule, ok := rs.Rules[t.RuleID]
		if !ok {
			continue
		}
		if !e.evaluationPasses(rule.Evaluations, evalInputs) {
			continue
		}
		candidates = append(candidates, Result{RuleID: t.RuleID, Weight: t.Weight})
	}
	candidates = dedupeByRuleID(candidates)

	switch mode {
	case ModeAllResults:
		sortResults(candidates)
		return candidates, nil
	case ModeAll:
		best := reduceToMax(candidates)
		sortResults(best)
		return best, nil
	default:
		best := reduceToMax(candidates)
		if len(best) == 0 {
			return nil, nil
		}
		return []Result{e.pickOne(best)}, nil
	}
}

func collectTerminals(n *tree.Node, inputs []string, flavor tree.Flavor, at *time.Time, level int, out *[]*types.Terminal) {
	if level == len(inputs) {
		if n.Terminal != nil {
			*out = append(*out, n.Terminal)
		}
		return
	}

	v := inputs[level]
	for _, c := range n.Children {
		if !driverAccepts(c.Driver, v) {
			continue
		}
		if flavor == tree.Dated && c.DateRange != nil {
			if at == nil || !c.DateRange.Contains(*at) {
				continue
			}
		}
		collectTerminals(c, inputs, flavor, at, level+1, out)
	}
}

// driverAccepts reports whether d should be descended into for input
// value v: either d genuinely matches v, or d is the structural wildcard
// slot, which always admits any value (spec §4.1, §4.4).
func driverAccepts(d types.Driver, v string) bool {
	if d == nil {
		return false
	}
	if d.Kind() == types.KindString && types.IsWildcardValue(d.Value()) {
		return true
	}
	return d.Matches(v)
}

// evaluationPasses applies e.evalLogic pairwise over a rule's evaluation
// drivers and the caller-supplied evaluation input vector. A rule with no
// evaluation drivers always passes (spec §4.2: evaluations are optional).
func (e *Evaluator) evaluationPasses(drivers []types.Driver, inputs []string) bool {
	if len(drivers) == 0 {
		return true
	}
	n := len(drivers)
	if len(inputs) < n {
		n = len(inputs)
	}

	matchCount := 0
	for i := 0; i < n; i++ {
		if drivers[i] == nil {
			continue
		}
		if driverAccepts(drivers[i], inputs[i]) {
			matchCount++
		}
	}

	if e.evalLogic == Conjunctive {
		return matchCount == len(drivers)
	}
	return matchCount > 0
}

func reduceToMax(candidates []Result) []Result {
	if len(candidates) == 0 {
		return nil
	}
	var max uint64
	for _, c := range candidates {
		if c.Weight > max {
			max = c.Weight
		}
	}
	best := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if c.Weight == max {
			best = append(best, c)
		}
	}
	return best
}

func (e *Evaluator) pickOne(best []Result) Result {
	if e.tieBreak == SelectFirst || len(best) == 1 {
		return best[0]
	}
	winner := best[0]
	for _, c := range best[1:] {
		if c.RuleID.String() < winner.RuleID.String() {
			winner = c
		}
	}
	return winner
}

func dedupeByRuleID(candidates []Result) []Result {
	seen := make(map[uuid.UUID]bool, len(candidates))
	out := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.RuleID] {
			continue
		}
		seen[c.RuleID] = true
		out = append(out, c)
	}
	return out
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Weight != results[j].Weight {
			return results[i].Weight > results[j].Weight
		}
		return results[i].RuleID.String() < results[j].RuleID.String()
	})
}
