package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ratedesk/decisiontree/pkg/tree"
)

var (
	compileRuleset string
	compileFlavor  string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a ruleset file into a tree and report its shape",
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileRuleset, "ruleset", "", "Path to a canonical YAML ruleset file")
	compileCmd.Flags().StringVar(&compileFlavor, "flavor", "single", "Tree flavor: single, dated, sliced")
	compileCmd.MarkFlagRequired("ruleset")
}

func runCompile(cmd *cobra.Command, args []string) error {
	rs, err := loadRuleset(compileRuleset)
	if err != nil {
		return fmt.Errorf("loading ruleset: %w", err)
	}

	flavor, err := parseFlavor(compileFlavor)
	if err != nil {
		return err
	}

	tr, err := tree.Compile(rs, flavor)
	if err != nil {
		return fmt.Errorf("compiling tree: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ruleset: %s\n", rs.Name)
	fmt.Fprintf(out, "Drivers: %d position(s): %v\n", len(rs.DriverNames), rs.DriverNames)
	fmt.Fprintf(out, "Rules: %d\n", len(rs.Rules))
	fmt.Fprintf(out, "Value groups: %d\n", len(rs.ValueGroups))
	fmt.Fprintf(out, "Tree flavor: %s\n", tr.Flavor())
	return nil
}
