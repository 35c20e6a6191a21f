package planning

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractRejectsNoAction(t *testing.T) {
	p := singleRobotProblem()
	actions := mustGround(robotsDomain(), p)
	store, enc, err := Encode(actions, NewState(p.Init...), p.Goal, 1)
	if err != nil {
		t.Fatal(err)
	}

	// An all-false assignment has no executing action at layer 0.
	assignment := make(Assignment, len(store.Variables()))
	_, err = Extract(assignment, enc)
	var malformed *MalformedAssignmentError
	if !errors.As(err, &malformed) {
		t.Fatalf("Extract() error = %v, want *MalformedAssignmentError", err)
	}
	if malformed.Layer != 0 || malformed.Count != 0 {
		t.Errorf("error = %v, want layer 0 count 0", malformed)
	}
}

func TestExtractRejectsTwoActions(t *testing.T) {
	p := singleRobotProblem()
	actions := mustGround(robotsDomain(), p)
	store, enc, err := Encode(actions, NewState(p.Init...), p.Goal, 1)
	if err != nil {
		t.Fatal(err)
	}

	assignment := make(Assignment, len(store.Variables()))
	assignment[enc.ActionVar(0, 0)] = true
	assignment[enc.ActionVar(1, 0)] = true
	_, err = Extract(assignment, enc)
	var malformed *MalformedAssignmentError
	if !errors.As(err, &malformed) {
		t.Fatalf("Extract() error = %v, want *MalformedAssignmentError", err)
	}
	if malformed.Count != 2 {
		t.Errorf("error count = %d, want 2", malformed.Count)
	}
}

func TestPlanString(t *testing.T) {
	move := &GroundAction{Name: "move", Args: []string{"robr", "loc1", "loc2"}}
	plan := &Plan{Steps: []*GroundAction{move}}
	if !strings.Contains(plan.String(), "0: move(robr, loc1, loc2)") {
		t.Errorf("Plan.String() = %q", plan.String())
	}

	empty := &Plan{}
	if empty.String() != "(empty plan)" {
		t.Errorf("empty plan renders as %q", empty.String())
	}
}

func TestSimulateRejectsInapplicableStep(t *testing.T) {
	move := &GroundAction{
		Name: "move",
		Args: []string{"robr", "loc1", "loc2"},
		Pre:  []Fact{NewFact("at", "robr", "loc1")},
		Add:  []Fact{NewFact("at", "robr", "loc2")},
		Del:  []Fact{NewFact("at", "robr", "loc1")},
	}
	plan := &Plan{Steps: []*GroundAction{move}}

	// The robot is elsewhere, so the move's precondition fails.
	if _, err := plan.Simulate(NewState(NewFact("at", "robr", "loc2"))); err == nil {
		t.Error("Simulate should reject an inapplicable step")
	}
}

func TestSimulateProducesAllStates(t *testing.T) {
	move := &GroundAction{
		Name: "move",
		Args: []string{"robr", "loc1", "loc2"},
		Pre:  []Fact{NewFact("at", "robr", "loc1")},
		Add:  []Fact{NewFact("at", "robr", "loc2")},
		Del:  []Fact{NewFact("at", "robr", "loc1")},
	}
	plan := &Plan{Steps: []*GroundAction{move}}

	states, err := plan.Simulate(NewState(NewFact("at", "robr", "loc1")))
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 2 {
		t.Fatalf("Simulate returned %d states, want 2", len(states))
	}
	if !states[0].Has(NewFact("at", "robr", "loc1")) {
		t.Error("states[0] should be the initial state")
	}
	if !states[1].Has(NewFact("at", "robr", "loc2")) || states[1].Has(NewFact("at", "robr", "loc1")) {
		t.Error("states[1] should reflect the move")
	}
}
