package planning

import (
	"context"
	"testing"
)

func solveProblem(t *testing.T, d *Domain, p *Problem, horizon int) (*Result, *Encoding) {
	t.Helper()
	actions := mustGround(d, p)
	store, enc, err := Encode(actions, NewState(p.Init...), p.Goal, horizon)
	if err != nil {
		t.Fatal(err)
	}
	res, err := NewSolver(store).Solve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return res, enc
}

func TestSolverFindsOneStepPlan(t *testing.T) {
	res, enc := solveProblem(t, robotsDomain(), singleRobotProblem(), 1)
	if !res.Satisfiable {
		t.Fatal("one-step problem should be satisfiable at horizon 1")
	}

	plan, err := Extract(res.Assignment, enc)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Length() != 1 || plan.Steps[0].Signature() != "move(robr, loc1, loc2)" {
		t.Errorf("plan = %v, want single move(robr, loc1, loc2)", plan)
	}
}

func TestSolverHorizonZeroUnsatisfiable(t *testing.T) {
	res, _ := solveProblem(t, robotsDomain(), singleRobotProblem(), 0)
	if res.Satisfiable {
		t.Error("horizon 0 with an unmet goal should be unsatisfiable")
	}
}

func TestSolverExactlyOneActionPerLayer(t *testing.T) {
	res, enc := solveProblem(t, robotsDomain(), robotsProblem(), 4)
	if !res.Satisfiable {
		t.Fatal("robots problem should be satisfiable at horizon 4")
	}
	for k := 0; k < enc.Horizon; k++ {
		count := 0
		for i := range enc.Actions {
			if res.Assignment[enc.ActionVar(i, k)] {
				count++
			}
		}
		if count != 1 {
			t.Errorf("layer %d has %d executing actions, want exactly 1", k, count)
		}
	}
}

func TestSolverDeterministic(t *testing.T) {
	first, _ := solveProblem(t, robotsDomain(), robotsProblem(), 4)
	second, _ := solveProblem(t, robotsDomain(), robotsProblem(), 4)
	if !first.Satisfiable || !second.Satisfiable {
		t.Fatal("both runs should be satisfiable")
	}
	if len(first.Assignment) != len(second.Assignment) {
		t.Fatal("assignment lengths differ")
	}
	for i := range first.Assignment {
		if first.Assignment[i] != second.Assignment[i] {
			t.Fatalf("assignments differ at variable %d", i)
		}
	}
}

func TestSolverCancellation(t *testing.T) {
	p := robotsProblem()
	actions := mustGround(robotsDomain(), p)
	store, _, err := Encode(actions, NewState(p.Init...), p.Goal, 4)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSolver(store).Solve(ctx); err == nil {
		t.Error("Solve with a cancelled context should return an error")
	}
}

func TestSolverNodeBudget(t *testing.T) {
	p := robotsProblem()
	actions := mustGround(robotsDomain(), p)
	store, _, err := Encode(actions, NewState(p.Init...), p.Goal, 4)
	if err != nil {
		t.Fatal(err)
	}

	config := DefaultSolverConfig()
	config.MaxNodes = 1
	solver := NewSolverWithConfig(store, config)
	if _, err := solver.Solve(context.Background()); err == nil {
		t.Error("Solve should fail once the node budget is exceeded")
	}
}

func TestSolverStatsPopulated(t *testing.T) {
	res, _ := solveProblem(t, robotsDomain(), robotsProblem(), 4)
	if res.Stats.Nodes == 0 {
		t.Error("a search that branches should count nodes")
	}
	if res.Stats.Propagations == 0 {
		t.Error("propagation count should be non-zero")
	}
}

func TestSolverParallelMatchesSequential(t *testing.T) {
	p := robotsProblem()
	actions := mustGround(robotsDomain(), p)

	store1, enc, err := Encode(actions, NewState(p.Init...), p.Goal, 4)
	if err != nil {
		t.Fatal(err)
	}
	seq, err := NewSolver(store1).Solve(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	store2, _, err := Encode(actions, NewState(p.Init...), p.Goal, 4)
	if err != nil {
		t.Fatal(err)
	}
	par, err := NewSolver(store2).SolveParallel(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}

	if seq.Satisfiable != par.Satisfiable {
		t.Fatal("parallel and sequential disagree on satisfiability")
	}
	planSeq, err := Extract(seq.Assignment, enc)
	if err != nil {
		t.Fatal(err)
	}
	planPar, err := Extract(par.Assignment, enc)
	if err != nil {
		t.Fatal(err)
	}
	if planSeq.String() != planPar.String() {
		t.Errorf("plans differ:\nsequential:\n%s\nparallel:\n%s", planSeq, planPar)
	}
}

func TestLexHeuristicAlsoSolves(t *testing.T) {
	p := singleRobotProblem()
	actions := mustGround(robotsDomain(), p)
	store, enc, err := Encode(actions, NewState(p.Init...), p.Goal, 1)
	if err != nil {
		t.Fatal(err)
	}

	config := &SolverConfig{VariableHeuristic: HeuristicLex, ValueOrder: ValueFalseFirst}
	res, err := NewSolverWithConfig(store, config).Solve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Satisfiable {
		t.Fatal("lex heuristic should still find the plan")
	}
	if _, err := Extract(res.Assignment, enc); err != nil {
		t.Errorf("extraction failed: %v", err)
	}
}
