// Package cli implements the gostrips command tree. It is a thin
// presentation layer: PDDL files are read by pkg/pddl, planning happens in
// pkg/planning, and this package only wires flags to the Planner and
// renders results.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "gostrips",
	Version: "dev",
	Short:   "Classical planner solving PDDL problems via CSP encoding",
	Long: `gostrips solves classical STRIPS-style planning problems by encoding a
fixed-length plan search as a constraint satisfaction problem and solving
it with backtracking search plus constraint propagation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion overrides the version reported by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newGroundCmd())
}
