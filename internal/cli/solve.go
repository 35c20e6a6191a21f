package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitrdm/gostrips/pkg/pddl"
	"github.com/gitrdm/gostrips/pkg/planning"
)

type solveOptions struct {
	domainPath  string
	problemPath string
	horizon     int
	maxHorizon  int
	prune       bool
	workers     int
	timeout     time.Duration
	stats       bool
	verbose     bool
}

func newSolveCmd() *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a PDDL problem at a fixed or bounded horizon",
		Long: `solve searches for a plan of exactly --horizon steps, or, with
--max-horizon, for the shortest plan of at most that many steps (trying
each length in turn). "No plan of this length" is a normal outcome and
exits with status 2, distinct from input errors (status 1).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.domainPath, "domain", "d", "", "PDDL domain file (required)")
	cmd.Flags().StringVarP(&opts.problemPath, "problem", "p", "", "PDDL problem file (required)")
	cmd.Flags().IntVarP(&opts.horizon, "horizon", "H", -1, "exact plan length to search")
	cmd.Flags().IntVar(&opts.maxHorizon, "max-horizon", -1, "search lengths 0..N for the shortest plan")
	cmd.Flags().BoolVar(&opts.prune, "prune", false, "discard unreachable ground actions before encoding")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "parallel search workers (1 = sequential)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort the search after this duration")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print search statistics")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "log grounding and encoding detail")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("problem")

	return cmd
}

// errNoPlan distinguishes the unsatisfiable outcome so main can exit with
// a dedicated status code.
var errNoPlan = fmt.Errorf("no plan found")

// IsNoPlan reports whether err is the "no plan of this length" outcome.
func IsNoPlan(err error) bool { return err == errNoPlan }

func runSolve(cmd *cobra.Command, opts *solveOptions) error {
	if opts.horizon < 0 && opts.maxHorizon < 0 {
		return fmt.Errorf("one of --horizon or --max-horizon is required")
	}
	if opts.horizon >= 0 && opts.maxHorizon >= 0 {
		return fmt.Errorf("--horizon and --max-horizon are mutually exclusive")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(opts.verbose),
	}))

	domain, err := pddl.LoadDomain(opts.domainPath)
	if err != nil {
		return err
	}
	problem, err := pddl.LoadProblem(opts.problemPath, domain.Name)
	if err != nil {
		return err
	}
	logger.Debug("parsed input",
		slog.String("domain", domain.Name),
		slog.String("problem", problem.Name),
		slog.Int("objects", len(problem.Objects)),
		slog.Int("schemas", len(domain.Actions)))

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	pl := &planning.Planner{Prune: opts.prune, Workers: opts.workers}

	start := time.Now()
	var res *planning.PlanResult
	if opts.horizon >= 0 {
		res, err = pl.Solve(ctx, domain, problem, opts.horizon)
	} else {
		res, err = pl.SolveUpTo(ctx, domain, problem, opts.maxHorizon)
	}
	if err != nil {
		return err
	}
	logger.Debug("search finished",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int64("nodes", res.Stats.Nodes))

	out := cmd.OutOrStdout()
	if opts.stats {
		printStats(out, res.Stats)
	}
	if !res.Satisfiable() {
		printUnsat(out, res.Horizon)
		return errNoPlan
	}
	printPlan(out, res.Plan)
	return nil
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
