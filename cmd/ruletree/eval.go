package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ratedesk/decisiontree/pkg/eval"
	"github.com/ratedesk/decisiontree/pkg/tree"
	"github.com/ratedesk/decisiontree/pkg/types"
)

var (
	evalRuleset  string
	evalFlavor   string
	evalIn       []string
	evalEvalIn   []string
	evalAt       string
	evalMode     string
	evalTieBreak string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate an input vector against a compiled ruleset",
	RunE:  runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalRuleset, "ruleset", "", "Path to a canonical YAML ruleset file")
	evalCmd.Flags().StringVar(&evalFlavor, "flavor", "single", "Tree flavor: single, dated, sliced")
	evalCmd.Flags().StringSliceVar(&evalIn, "in", nil, "Input value for each driver position, in order")
	evalCmd.Flags().StringSliceVar(&evalEvalIn, "eval-in", nil, "Input value for each evaluation-driver position, in order")
	evalCmd.Flags().StringVar(&evalAt, "at", "", "RFC3339 instant to evaluate against (required for sliced/dated ranges); defaults to now")
	evalCmd.Flags().StringVar(&evalMode, "mode", "single", "Result mode: single, all, all-results")
	evalCmd.Flags().StringVar(&evalTieBreak, "tie-break", "deterministic", "Tie-break strategy: deterministic, first")
	evalCmd.MarkFlagRequired("ruleset")
	evalCmd.MarkFlagRequired("in")
}

func runEval(cmd *cobra.Command, args []string) error {
	rs, err := loadRuleset(evalRuleset)
	if err != nil {
		return fmt.Errorf("loading ruleset: %w", err)
	}

	flavor, err := parseFlavor(evalFlavor)
	if err != nil {
		return err
	}
	tr, err := tree.Compile(rs, flavor)
	if err != nil {
		return fmt.Errorf("compiling tree: %w", err)
	}

	var at *time.Time
	if evalAt != "" {
		t, err := time.Parse(time.RFC3339, evalAt)
		if err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}
		at = &t
	} else if flavor == tree.Sliced || flavor == tree.Dated {
		now := time.Now().UTC()
		at = &now
	}

	mode, err := parseMode(evalMode)
	if err != nil {
		return err
	}
	tieBreak, err := parseTieBreak(evalTieBreak)
	if err != nil {
		return err
	}

	ev := eval.New(eval.WithTieBreak(tieBreak))
	results, err := ev.Evaluate(tr, rs, evalIn, evalEvalIn, at, mode)
	if err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}

	printResults(cmd, rs, results)
	return nil
}

func parseMode(s string) (eval.Mode, error) {
	switch s {
	case "", "single":
		return eval.ModeSingle, nil
	case "all":
		return eval.ModeAll, nil
	case "all-results":
		return eval.ModeAllResults, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want single, all, or all-results)", s)
	}
}

func parseTieBreak(s string) (eval.TieBreak, error) {
	switch s {
	case "", "deterministic":
		return eval.SelectDeterministic, nil
	case "first":
		return eval.SelectFirst, nil
	default:
		return 0, fmt.Errorf("unknown tie-break %q (want deterministic or first)", s)
	}
}

func printResults(cmd *cobra.Command, rs *types.Ruleset, results []eval.Result) {
	out := cmd.OutOrStdout()
	ruleID := color.New(color.Bold, color.FgHiGreen)
	weight := color.New(color.FgHiBlue)
	if noColor {
		ruleID.DisableColor()
		weight.DisableColor()
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "no match")
		return
	}

	for _, r := range results {
		rule := rs.Rules[r.RuleID]
		fmt.Fprintf(out, "%s  weight=%s", ruleID.Sprint(r.RuleID), weight.Sprint(r.Weight))
		if rule != nil && len(rule.Outputs) > 0 {
			fmt.Fprintf(out, "  outputs=%v", rule.Outputs)
		}
		fmt.Fprintln(out)
	}
}
