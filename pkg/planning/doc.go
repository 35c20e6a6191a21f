// Package planning solves classical STRIPS-style planning problems by
// encoding a fixed-length plan search as a constraint satisfaction problem
// (CSP) and solving it with backtracking search plus constraint propagation.
//
// The pipeline has five stages, leaves first:
//
//   - Grounding: expands parameterized action schemas over typed objects
//     into a finite set of ground actions (Ground, GroundReachable).
//   - Layer encoding: given the ground actions, an initial state, a goal,
//     and a horizon H, builds H+1 state layers and H action layers of
//     boolean variables wired together by precondition, effect, frame and
//     mutual-exclusion constraints (Encode).
//   - Constraint store: holds variable domains and constraints, supports
//     arc-consistency style propagation and trail-based checkpoint/undo
//     (ConstraintStore).
//   - Solver: explicit-stack backtracking with propagation at every node,
//     deterministic variable/value ordering, cooperative cancellation via
//     context (Solver).
//   - Plan extraction: reads the satisfying assignment back into an ordered
//     sequence of ground actions, one per step (Extract).
//
// The Planner facade wires the stages together for the common case:
//
//	pl := planning.NewPlanner()
//	res, err := pl.Solve(ctx, domain, problem, 4)
//	if err != nil { ... }
//	if res.Plan == nil {
//		// no plan of exactly this length exists; not an error
//	}
//
// Unsatisfiability at a given horizon is a normal result, reported as a nil
// Plan in the PlanResult, never as an error. Errors are reserved for malformed
// input (unknown symbols, type mismatches, negative horizons) and internal
// invariant violations.
//
// The package performs no I/O; PDDL text is read by the companion pddl
// package, which produces the Domain and Problem values consumed here.
package planning
