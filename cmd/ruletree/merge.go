package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ratedesk/decisiontree/pkg/change"
	"github.com/ratedesk/decisiontree/pkg/ruleset"
)

var (
	mergeRulesetPath string
	mergeChangePath  string
	mergeOutput      string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Apply a change file to a ruleset and write the rebuilt ruleset",
	Long: `merge validates and builds a change file, applies it to an
existing ruleset, and writes the updated ruleset back out in canonical
YAML form, printing an audit summary.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeRulesetPath, "ruleset", "", "Path to the existing canonical YAML ruleset file")
	mergeCmd.Flags().StringVar(&mergeChangePath, "change", "", "Path to a change file")
	mergeCmd.Flags().StringVar(&mergeOutput, "output", "", "Output path for the rebuilt ruleset (defaults to overwriting --ruleset)")
	mergeCmd.MarkFlagRequired("ruleset")
	mergeCmd.MarkFlagRequired("change")
}

func runMerge(cmd *cobra.Command, args []string) error {
	rs, err := loadRuleset(mergeRulesetPath)
	if err != nil {
		return fmt.Errorf("loading ruleset: %w", err)
	}
	store := ruleset.New(rs)

	changeData, err := os.ReadFile(mergeChangePath)
	if err != nil {
		return fmt.Errorf("reading change file: %w", err)
	}
	c, err := parseChangeFile(changeData, store.DriverCache())
	if err != nil {
		return fmt.Errorf("parsing change file: %w", err)
	}

	if err := change.Build(c); err != nil {
		return fmt.Errorf("building change: %w", err)
	}
	if err := change.Apply(store, c); err != nil {
		return fmt.Errorf("applying change: %w", err)
	}

	outPath := mergeOutput
	if outPath == "" {
		outPath = mergeRulesetPath
	}
	merged := store.Snapshot()
	if err := writeRuleset(outPath, merged); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Change %s applied to %s\n", c.ID, c.RulesetName)
	fmt.Fprintf(out, "  Rule changes: %d\n", len(c.RuleChanges))
	fmt.Fprintf(out, "  Group changes: %d\n", len(c.GroupChanges))
	fmt.Fprintf(out, "  Created by: %s at %s\n", c.Audit.CreatedBy, c.Audit.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(out, "  Applied at: %s\n", c.Audit.AppliedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(out, "Output: %s (%d rules, %d groups)\n", outPath, len(merged.Rules), len(merged.ValueGroups))
	return nil
}
