package main

import (
	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "ruletree",
	Short: "ruletree - weighted decision-tree rule engine CLI",
	Long: `ruletree compiles, evaluates, and merges weighted decision-tree
rulesets: rules made of positional drivers (string/regex/date-range/
integer-range/value-group), compiled into a tree and matched by
exhaustive backtracking to the highest-weight rule.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
