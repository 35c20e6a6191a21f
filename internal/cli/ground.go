package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gostrips/pkg/pddl"
	"github.com/gitrdm/gostrips/pkg/planning"
)

type groundOptions struct {
	domainPath  string
	problemPath string
	prune       bool
}

// newGroundCmd lists the ground action set for a domain/problem pair, a
// debugging aid for writing PDDL and sizing encodings.
func newGroundCmd() *cobra.Command {
	opts := &groundOptions{}

	cmd := &cobra.Command{
		Use:   "ground",
		Short: "Print the ground actions of a PDDL problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGround(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.domainPath, "domain", "d", "", "PDDL domain file (required)")
	cmd.Flags().StringVarP(&opts.problemPath, "problem", "p", "", "PDDL problem file (required)")
	cmd.Flags().BoolVar(&opts.prune, "prune", false, "discard unreachable ground actions")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("problem")

	return cmd
}

func runGround(cmd *cobra.Command, opts *groundOptions) error {
	domain, err := pddl.LoadDomain(opts.domainPath)
	if err != nil {
		return err
	}
	problem, err := pddl.LoadProblem(opts.problemPath, domain.Name)
	if err != nil {
		return err
	}

	var actions []*planning.GroundAction
	if opts.prune {
		actions, err = planning.GroundReachable(domain, problem)
	} else {
		actions, err = planning.Ground(domain, problem)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, a := range actions {
		fmt.Fprintln(out, a.Signature())
	}
	dimColor.Fprintf(out, "%d ground actions\n", len(actions))
	return nil
}
