// Planner is the high-level facade wiring the pipeline together:
// Ground -> Encode -> Solve -> Extract. One Solve call searches one fixed
// horizon; SolveUpTo is the caller-level iterative-deepening loop over
// horizons 0..max.
package planning

import "context"

// PlanResult is the outcome of one planning attempt. A nil Plan means no
// plan of exactly the requested length exists — a normal result, distinct
// from an error.
type PlanResult struct {
	Plan    *Plan
	Horizon int
	Stats   SearchStats
}

// Satisfiable reports whether a plan was found.
func (r *PlanResult) Satisfiable() bool { return r.Plan != nil }

// Planner configures and runs plan searches. The zero value is usable and
// equivalent to NewPlanner().
type Planner struct {
	// Config tunes the backtracking search; nil selects the defaults.
	Config *SolverConfig

	// Prune enables relaxed-reachability pruning of the ground action set.
	// Conservative: it never removes an action a plan could use.
	Prune bool

	// Workers enables parallel root-split search when greater than 1.
	Workers int

	// Options tunes the layer encoding.
	Options EncodeOptions
}

// NewPlanner returns a planner with default settings: sequential search,
// no pruning, default heuristics.
func NewPlanner() *Planner {
	return &Planner{}
}

// Solve searches for a plan of exactly the given horizon. Input errors
// (unknown symbols, type mismatches, negative horizon) are returned before
// any search work begins. A nil Plan in the result means the horizon is
// unsatisfiable.
func (pl *Planner) Solve(ctx context.Context, d *Domain, p *Problem, horizon int) (*PlanResult, error) {
	actions, err := pl.ground(d, p)
	if err != nil {
		return nil, err
	}
	return pl.solveGrounded(ctx, actions, NewState(p.Init...), p.Goal, horizon)
}

// SolveUpTo tries horizons 0, 1, ... maxHorizon in order and returns the
// first satisfiable result, rebuilding the encoding per horizon (no
// incremental reuse). If every horizon is unsatisfiable the returned
// result carries a nil Plan, maxHorizon, and the accumulated stats.
func (pl *Planner) SolveUpTo(ctx context.Context, d *Domain, p *Problem, maxHorizon int) (*PlanResult, error) {
	if maxHorizon < 0 {
		return nil, &InvalidHorizonError{Horizon: maxHorizon}
	}
	actions, err := pl.ground(d, p)
	if err != nil {
		return nil, err
	}

	init := NewState(p.Init...)
	var total SearchStats
	for h := 0; h <= maxHorizon; h++ {
		res, err := pl.solveGrounded(ctx, actions, init, p.Goal, h)
		if err != nil {
			return nil, err
		}
		total.Nodes += res.Stats.Nodes
		total.Backtracks += res.Stats.Backtracks
		total.Propagations += res.Stats.Propagations
		if res.Stats.MaxDepth > total.MaxDepth {
			total.MaxDepth = res.Stats.MaxDepth
		}
		if res.Plan != nil {
			res.Stats = total
			return res, nil
		}
	}
	return &PlanResult{Plan: nil, Horizon: maxHorizon, Stats: total}, nil
}

func (pl *Planner) ground(d *Domain, p *Problem) ([]*GroundAction, error) {
	if pl.Prune {
		return GroundReachable(d, p)
	}
	return Ground(d, p)
}

func (pl *Planner) solveGrounded(ctx context.Context, actions []*GroundAction, init State, goal []Literal, horizon int) (*PlanResult, error) {
	store, enc, err := EncodeWithOptions(actions, init, goal, horizon, pl.Options)
	if err != nil {
		return nil, err
	}

	solver := NewSolverWithConfig(store, pl.Config)
	var res *Result
	if pl.Workers > 1 {
		res, err = solver.SolveParallel(ctx, pl.Workers)
	} else {
		res, err = solver.Solve(ctx)
	}
	if err != nil {
		return nil, err
	}
	if !res.Satisfiable {
		return &PlanResult{Plan: nil, Horizon: horizon, Stats: res.Stats}, nil
	}

	plan, err := Extract(res.Assignment, enc)
	if err != nil {
		return nil, err
	}
	return &PlanResult{Plan: plan, Horizon: horizon, Stats: res.Stats}, nil
}
