package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ratedesk/decisiontree/pkg/ruleset"
)

var rulesPath string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate ruleset files",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a ruleset file's structural invariants",
	RunE:  runRulesValidate,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rules in a ruleset file",
	RunE:  runRulesList,
}

func init() {
	rulesCmd.PersistentFlags().StringVar(&rulesPath, "ruleset", "", "Path to a canonical YAML ruleset file")
	rulesCmd.MarkPersistentFlagRequired("ruleset")
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesListCmd)
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	rs, err := loadRuleset(rulesPath)
	if err != nil {
		return fmt.Errorf("loading ruleset: %w", err)
	}
	if err := ruleset.Validate(rs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d rules, %d groups)\n", rs.Name, len(rs.Rules), len(rs.ValueGroups))
	return nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	rs, err := loadRuleset(rulesPath)
	if err != nil {
		return fmt.Errorf("loading ruleset: %w", err)
	}

	type row struct {
		id, code string
		weight   uint64
	}
	rows := make([]row, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		rows = append(rows, row{r.RuleID.String(), r.RuleCode.String(), r.Weight()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "RULE ID\tCODE\tWEIGHT\n")
	for _, rr := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\n", rr.id, rr.code, rr.weight)
	}
	return nil
}
