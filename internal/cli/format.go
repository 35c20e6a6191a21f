package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/gitrdm/gostrips/pkg/planning"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgYellow, color.Bold)
	stepColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.FgHiBlack)
)

// printPlan renders a found plan, one numbered step per line.
func printPlan(w io.Writer, plan *planning.Plan) {
	successColor.Fprintf(w, "plan found (%d steps)\n", plan.Length())
	for i, a := range plan.Steps {
		stepColor.Fprintf(w, "  %2d", i)
		fmt.Fprintf(w, "  %s\n", a.Signature())
	}
}

// printUnsat renders the no-plan-of-this-length outcome.
func printUnsat(w io.Writer, horizon int) {
	failureColor.Fprintf(w, "no plan of length %d exists\n", horizon)
}

// printStats renders search statistics.
func printStats(w io.Writer, stats planning.SearchStats) {
	dimColor.Fprintf(w, "nodes=%d backtracks=%d propagations=%d max-depth=%d\n",
		stats.Nodes, stats.Backtracks, stats.Propagations, stats.MaxDepth)
}
