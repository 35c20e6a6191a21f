// Backtracking search over the constraint store.
//
// The solver follows a propagate-then-branch discipline: constraint
// propagation runs at every node, and only when it neither fails nor fixes
// every variable does the solver branch on an unassigned variable. The
// search uses an explicit stack of (variable, remaining values, trail
// checkpoint) frames rather than recursion, which keeps backtracking
// auditable and makes the cooperative cancellation check trivial to place
// between frames.
//
// A search that exhausts the root's choices is not an error: it means no
// plan of exactly the encoded length exists, and is reported as an
// unsatisfiable Result.
package planning

import (
	"context"
	"fmt"

	"github.com/gitrdm/gostrips/internal/parallel"
)

// VariableHeuristic selects how the solver picks the next branching
// variable.
type VariableHeuristic int

const (
	// HeuristicMinDomain branches on a variable with the smallest remaining
	// domain, ties broken by the fixed encoding order: earlier layer first,
	// action variables before state variables, then creation order.
	HeuristicMinDomain VariableHeuristic = iota

	// HeuristicLex branches in variable creation order.
	HeuristicLex
)

// ValueOrder selects which boolean value the solver tries first.
type ValueOrder int

const (
	// ValueTrueFirst tries true before false, preferring denser plans.
	ValueTrueFirst ValueOrder = iota

	// ValueFalseFirst tries false before true.
	ValueFalseFirst
)

// SolverConfig holds search parameters. The zero value is usable; see
// DefaultSolverConfig.
type SolverConfig struct {
	VariableHeuristic VariableHeuristic
	ValueOrder        ValueOrder

	// MaxNodes aborts the search with an error after this many search
	// nodes. Zero or negative means unlimited.
	MaxNodes int64
}

// DefaultSolverConfig returns the deterministic default configuration:
// smallest-domain variable selection with the fixed tie-break order, and
// true-before-false value order.
func DefaultSolverConfig() *SolverConfig {
	return &SolverConfig{
		VariableHeuristic: HeuristicMinDomain,
		ValueOrder:        ValueTrueFirst,
	}
}

// SearchStats records search effort for one Solve call.
type SearchStats struct {
	Nodes        int64
	Backtracks   int64
	Propagations int64
	MaxDepth     int
}

// Assignment maps every variable ID of a store to its boolean value.
type Assignment []bool

// Result is the outcome of a Solve call. Satisfiable distinguishes a found
// assignment from exhaustion; exhaustion is a normal result, not an error.
type Result struct {
	Satisfiable bool
	Assignment  Assignment
	Stats       SearchStats
}

// Solver performs backtracking search over a constraint store. A Solver
// owns its store exclusively for the duration of one Solve call; it is not
// safe for concurrent use. Parallel search is provided by SolveParallel,
// which runs independent solvers on store clones.
type Solver struct {
	store  *ConstraintStore
	config *SolverConfig
	stats  SearchStats
}

// NewSolver creates a solver with the default configuration.
func NewSolver(store *ConstraintStore) *Solver {
	return NewSolverWithConfig(store, nil)
}

// NewSolverWithConfig creates a solver with a custom configuration.
// A nil config selects the defaults.
func NewSolverWithConfig(store *ConstraintStore, config *SolverConfig) *Solver {
	if config == nil {
		config = DefaultSolverConfig()
	}
	return &Solver{store: store, config: config}
}

// Stats returns the statistics of the most recent Solve call.
func (s *Solver) Stats() SearchStats { return s.stats }

// searchFrame is one entry of the explicit search stack: a branching
// variable, the values left to try, and the trail mark to undo to when the
// current value's subtree fails.
type searchFrame struct {
	varID   int
	values  []bool
	next    int
	mark    Mark
	applied bool
}

// Solve runs the backtracking search to the first satisfying assignment.
// It returns an unsatisfiable Result when the search space is exhausted,
// and an error only for cancellation or an exceeded node budget.
func (s *Solver) Solve(ctx context.Context) (*Result, error) {
	s.stats = SearchStats{}

	// Root propagation: initial/goal constraints and their consequences.
	s.stats.Propagations++
	if err := s.store.Propagate(); err != nil {
		return &Result{Satisfiable: false, Stats: s.stats}, nil
	}
	root := s.selectVariable()
	if root == -1 {
		return s.solved(), nil
	}

	stack := make([]searchFrame, 0, 64)
	stack = append(stack, searchFrame{varID: root, values: s.orderedValues()})

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f := &stack[len(stack)-1]

		// Returning from a failed subtree: revert this frame's assignment
		// before trying the next value.
		if f.applied {
			s.store.Undo(f.mark)
			f.applied = false
			s.stats.Backtracks++
		}

		if f.next >= len(f.values) {
			stack = stack[:len(stack)-1]
			continue
		}

		value := f.values[f.next]
		f.next++

		s.stats.Nodes++
		if s.config.MaxNodes > 0 && s.stats.Nodes > s.config.MaxNodes {
			return nil, fmt.Errorf("search aborted: node budget of %d exceeded", s.config.MaxNodes)
		}
		if len(stack) > s.stats.MaxDepth {
			s.stats.MaxDepth = len(stack)
		}

		f.mark = s.store.Checkpoint()
		f.applied = true
		if err := s.store.Assign(f.varID, value); err != nil {
			s.store.Undo(f.mark)
			f.applied = false
			continue
		}
		s.stats.Propagations++
		if err := s.store.Propagate(); err != nil {
			s.store.Undo(f.mark)
			f.applied = false
			continue
		}

		next := s.selectVariable()
		if next == -1 {
			return s.solved(), nil
		}
		stack = append(stack, searchFrame{varID: next, values: s.orderedValues()})
	}

	return &Result{Satisfiable: false, Stats: s.stats}, nil
}

// SolveParallel explores the two value branches of the root variable
// concurrently, each on its own clone of the store, using a bounded worker
// pool. Results are merged deterministically: if both branches find an
// assignment, the branch of the first-ordered value wins, so parallel and
// sequential runs report the same plan.
func (s *Solver) SolveParallel(ctx context.Context, workers int) (*Result, error) {
	s.stats = SearchStats{}
	s.stats.Propagations++
	if err := s.store.Propagate(); err != nil {
		return &Result{Satisfiable: false, Stats: s.stats}, nil
	}
	root := s.selectVariable()
	if root == -1 {
		return s.solved(), nil
	}

	values := s.orderedValues()
	results := make([]*Result, len(values))
	errs := make([]error, len(values))

	pool := parallel.NewPool(workers)
	for i, value := range values {
		branch := s.store.Clone()
		if err := branch.Assign(root, value); err != nil {
			results[i] = &Result{Satisfiable: false}
			continue
		}
		idx := i
		pool.Submit(func() {
			sub := NewSolverWithConfig(branch, s.config)
			results[idx], errs[idx] = sub.Solve(ctx)
		})
	}
	pool.Wait()

	// Deterministic merge in value order.
	merged := &Result{Satisfiable: false}
	for i := range values {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if results[i] == nil {
			continue
		}
		merged.Stats.Nodes += results[i].Stats.Nodes
		merged.Stats.Backtracks += results[i].Stats.Backtracks
		merged.Stats.Propagations += results[i].Stats.Propagations
		if results[i].Stats.MaxDepth > merged.Stats.MaxDepth {
			merged.Stats.MaxDepth = results[i].Stats.MaxDepth
		}
		if !merged.Satisfiable && results[i].Satisfiable {
			merged.Satisfiable = true
			merged.Assignment = results[i].Assignment
		}
	}
	s.stats = merged.Stats
	return merged, nil
}

// solved snapshots the store's fixed domains into an assignment.
func (s *Solver) solved() *Result {
	assignment := make(Assignment, len(s.store.Variables()))
	for id := range assignment {
		assignment[id] = s.store.Value(id)
	}
	return &Result{Satisfiable: true, Assignment: assignment, Stats: s.stats}
}

// selectVariable picks the next branching variable per the configured
// heuristic, or -1 when every variable is fixed. With boolean domains the
// minimum-domain rule reduces to the deterministic tie-break: earlier
// layer first, action variables before state variables, then creation
// order — which drives the search to commit each step's action before the
// states it entails.
func (s *Solver) selectVariable() int {
	if s.config.VariableHeuristic == HeuristicLex {
		return s.store.FirstUnfixed()
	}

	best := -1
	vars := s.store.Variables()
	for id := range vars {
		if s.store.Fixed(id) {
			continue
		}
		if best == -1 || variableLess(vars[id], vars[best]) {
			best = id
		}
	}
	return best
}

// variableLess is the fixed tie-break order for branching.
func variableLess(a, b *Variable) bool {
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	if a.Kind != b.Kind {
		return a.Kind == ActionVar
	}
	return a.ID < b.ID
}

// orderedValues returns the boolean values in the configured try order.
func (s *Solver) orderedValues() []bool {
	if s.config.ValueOrder == ValueFalseFirst {
		return []bool{false, true}
	}
	return []bool{true, false}
}
