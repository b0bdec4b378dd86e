// Package decisiontree provides a weighted decision-tree rule engine:
// rules made of positional drivers (string, regex, date range, integer
// range, or value group) are compiled into a tree and matched against an
// input vector by exhaustive backtracking to the highest-weight rule.
//
// # Basic Usage
//
// Build a ruleset, wrap it in an Engine, and evaluate input vectors:
//
//	rs := types.NewRuleset("rates", []string{"method", "destination"}, nil, driver.NewCache())
//	engine, err := decisiontree.NewEngine(rs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := engine.Evaluate([]string{"VOICE", "US"}, nil, nil, decisiontree.ModeSingle)
//
// # Applying changes
//
// Changes are built, then applied; Engine rebuilds its compiled tree
// automatically:
//
//	c := change.New("c1", rs.Name, "alice")
//	c.RuleChanges = append(c.RuleChanges, types.RuleChange{Type: types.ChangeNew, Rule: newRule})
//	change.Build(c)
//	err := engine.ApplyChange(c)
package decisiontree

import (
	"os"
	"sync"
	"time"

	"github.com/ratedesk/decisiontree/pkg/change"
	"github.com/ratedesk/decisiontree/pkg/driver"
	"github.com/ratedesk/decisiontree/pkg/eval"
	"github.com/ratedesk/decisiontree/pkg/ruleset"
	"github.com/ratedesk/decisiontree/pkg/serialize"
	"github.com/ratedesk/decisiontree/pkg/tree"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// Re-export commonly used types for convenience: callers can depend on
// just this package without reaching into pkg/types directly.
type (
	// Rule is a single weighted decision-tree entry.
	Rule = types.Rule

	// Ruleset is a named collection of rules sharing one driver schema.
	Ruleset = types.Ruleset

	// ValueGroup is a named, versioned set of member values.
	ValueGroup = types.ValueGroup

	// Change is an atomic set of rule/group mutations (see pkg/change).
	Change = types.Change

	// Driver is a polymorphic positional matcher (string/regex/date-range/
	// integer-range/value-group).
	Driver = types.Driver

	// DriverCache interns drivers by canonical text.
	DriverCache = types.DriverCache

	// Result is one matched rule and the weight it matched with.
	Result = eval.Result

	// Mode selects how many results Evaluate returns.
	Mode = eval.Mode

	// TieBreak selects how ModeSingle resolves a weight tie.
	TieBreak = eval.TieBreak

	// EvalLogic selects how a rule's evaluation drivers combine.
	EvalLogic = eval.EvalLogic
)

// Re-export Mode/TieBreak/EvalLogic constants.
const (
	ModeSingle     = eval.ModeSingle
	ModeAll        = eval.ModeAll
	ModeAllResults = eval.ModeAllResults

	SelectDeterministic = eval.SelectDeterministic
	SelectFirst         = eval.SelectFirst

	Disjunctive = eval.Disjunctive
	Conjunctive = eval.Conjunctive
)

// Engine wraps a ruleset Store, its compiled tree, and an Evaluator
// behind one mutex-guarded handle, rebuilding the tree whenever a change
// is applied.
type Engine struct {
	mu        sync.RWMutex
	store     *ruleset.Store
	flavor    tree.Flavor
	compiled  tree.Tree
	evaluator *eval.Evaluator
}

// engineConfig holds Engine construction options.
type engineConfig struct {
	flavor    tree.Flavor
	tieBreak  eval.TieBreak
	evalLogic eval.EvalLogic
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithFlavor selects the compiled tree flavor. Default is Single.
func WithFlavor(f tree.Flavor) Option {
	return func(c *engineConfig) { c.flavor = f }
}

// WithTieBreak overrides the default ModeSingle tie-break strategy.
func WithTieBreak(t TieBreak) Option {
	return func(c *engineConfig) { c.tieBreak = t }
}

// WithEvaluationLogic overrides the default evaluation-driver combinator.
func WithEvaluationLogic(l EvalLogic) Option {
	return func(c *engineConfig) { c.evalLogic = l }
}

// NewEngine compiles rs into a tree per opts and wraps it in an Engine.
//
// By default the Engine:
//   - Compiles a SINGLE tree (no date-range slicing)
//   - Breaks weight ties deterministically (smallest rule id)
//   - Requires only one evaluation driver to match (Disjunctive)
func NewEngine(rs *Ruleset, opts ...Option) (*Engine, error) {
	config := &engineConfig{
		flavor:    tree.Single,
		tieBreak:  eval.SelectDeterministic,
		evalLogic: eval.Disjunctive,
	}
	for _, opt := range opts {
		opt(config)
	}

	store := ruleset.New(rs)
	compiled, err := tree.Compile(rs, config.flavor)
	if err != nil {
		return nil, err
	}

	return &Engine{
		store:    store,
		flavor:   config.flavor,
		compiled: compiled,
		evaluator: eval.New(
			eval.WithTieBreak(config.tieBreak),
			eval.WithEvaluationLogic(config.evalLogic),
		),
	}, nil
}

// Evaluate matches inputs against the compiled tree, optionally filtering
// by evalInputs, at the given instant (required for Sliced trees), and
// returns results per mode.
func (e *Engine) Evaluate(inputs, evalInputs []string, at *time.Time, mode Mode) ([]Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rs := e.store.Snapshot()
	return e.evaluator.Evaluate(e.compiled, rs, inputs, evalInputs, at, mode)
}

// ApplyChange applies a Built change to the engine's ruleset and
// recompiles the tree, so the next Evaluate call sees the change.
func (e *Engine) ApplyChange(c *Change) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := change.Apply(e.store, c); err != nil {
		return err
	}
	compiled, err := tree.Compile(e.store.Snapshot(), e.flavor)
	if err != nil {
		return err
	}
	e.compiled = compiled
	return nil
}

// Snapshot returns the engine's current ruleset, safe to read without
// holding the engine's lock.
func (e *Engine) Snapshot() *Ruleset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Snapshot()
}

// DriverCache returns the engine's bound driver cache, for building new
// rules/groups to hand to a Change.
func (e *Engine) DriverCache() DriverCache {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.DriverCache()
}

// Flavor reports which tree flavor the engine compiles.
func (e *Engine) Flavor() tree.Flavor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.flavor
}

// LoadRuleset reads and parses the canonical YAML ruleset at path,
// binding its drivers to a fresh cache.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cache := driver.NewCache()
	return serialize.Unmarshal(data, cache)
}

// SaveRuleset marshals rs to its canonical YAML form and writes it to path.
func SaveRuleset(path string, rs *Ruleset) error {
	data, err := serialize.Marshal(rs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
