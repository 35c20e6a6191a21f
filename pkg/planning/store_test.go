package planning

import (
	"errors"
	"testing"
)

func TestBoolDomainOperations(t *testing.T) {
	if DomainBoth.Count() != 2 || DomainTrue.Count() != 1 || DomainEmpty.Count() != 0 {
		t.Error("Count() wrong for basic domains")
	}
	if !DomainBoth.Has(true) || !DomainBoth.Has(false) {
		t.Error("DomainBoth should contain both values")
	}
	if DomainTrue.Has(false) || DomainFalse.Has(true) {
		t.Error("singleton domains should contain only their value")
	}
	if !DomainTrue.IsSingleton() || DomainBoth.IsSingleton() {
		t.Error("IsSingleton() wrong")
	}
	if DomainTrue.SingletonValue() != true || DomainFalse.SingletonValue() != false {
		t.Error("SingletonValue() wrong")
	}
	if DomainBoth.Remove(false) != DomainTrue || DomainTrue.Remove(true) != DomainEmpty {
		t.Error("Remove() wrong")
	}
}

// tinyStore builds a three-variable store with a=true unary and the
// implications a=true => b=true, b=true => c=false.
func tinyStore() (*ConstraintStore, int, int, int) {
	s := NewConstraintStore()
	a := s.AddVariable(ActionVar, 0, Fact{}, &GroundAction{Name: "a"})
	b := s.AddVariable(StateVar, 0, NewFact("p"), nil)
	c := s.AddVariable(StateVar, 1, NewFact("q"), nil)
	s.AddConstraint(&unary{kind: KindInitial, varID: a, value: true})
	s.AddConstraint(&implication{kind: KindPrecondition, condVar: a, condVal: true, thenVar: b, thenVal: true})
	s.AddConstraint(&implication{kind: KindEffect, condVar: b, condVal: true, thenVar: c, thenVal: false})
	return s, a, b, c
}

func TestPropagateReachesFixedPoint(t *testing.T) {
	s, a, b, c := tinyStore()
	if err := s.Propagate(); err != nil {
		t.Fatalf("Propagate() error: %v", err)
	}
	if !s.Fixed(a) || s.Value(a) != true {
		t.Error("a should be fixed true by its unary constraint")
	}
	if !s.Fixed(b) || s.Value(b) != true {
		t.Error("b should be forced true through the implication chain")
	}
	if !s.Fixed(c) || s.Value(c) != false {
		t.Error("c should be forced false through the implication chain")
	}
}

func TestPropagateIdempotent(t *testing.T) {
	s, _, _, _ := tinyStore()
	if err := s.Propagate(); err != nil {
		t.Fatal(err)
	}
	snapshot := make([]BoolDomain, len(s.Variables()))
	for id := range snapshot {
		snapshot[id] = s.Domain(id)
	}
	trailLen := s.Checkpoint()

	if err := s.Propagate(); err != nil {
		t.Fatalf("second Propagate() error: %v", err)
	}
	for id := range snapshot {
		if s.Domain(id) != snapshot[id] {
			t.Errorf("variable %d domain changed on repeated propagation", id)
		}
	}
	if s.Checkpoint() != trailLen {
		t.Error("repeated propagation should not grow the trail")
	}
}

func TestAssignConflict(t *testing.T) {
	s, a, _, _ := tinyStore()
	if err := s.Propagate(); err != nil {
		t.Fatal(err)
	}
	err := s.Assign(a, false)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Assign() against a fixed domain = %v, want ErrConflict", err)
	}
}

func TestPropagateConflict(t *testing.T) {
	s := NewConstraintStore()
	v := s.AddVariable(StateVar, 0, NewFact("p"), nil)
	s.AddConstraint(&unary{kind: KindInitial, varID: v, value: true})
	s.AddConstraint(&unary{kind: KindGoal, varID: v, value: false})

	if err := s.Propagate(); !errors.Is(err, ErrConflict) {
		t.Errorf("Propagate() = %v, want ErrConflict", err)
	}
}

func TestCheckpointUndoRestoresDomains(t *testing.T) {
	s, _, b, c := tinyStore()
	// Before any propagation, everything is open.
	mark := s.Checkpoint()
	if err := s.Propagate(); err != nil {
		t.Fatal(err)
	}
	if s.Domain(b) == DomainBoth || s.Domain(c) == DomainBoth {
		t.Fatal("propagation should have narrowed b and c")
	}

	s.Undo(mark)
	for id := range s.Variables() {
		if s.Domain(id) != DomainBoth {
			t.Errorf("variable %d not restored to full domain after Undo", id)
		}
	}
}

func TestUndoPartial(t *testing.T) {
	s, _, b, _ := tinyStore()
	if err := s.Propagate(); err != nil {
		t.Fatal(err)
	}
	mark := s.Checkpoint()

	// A new restriction after the mark, then undo back to it.
	extra := s.AddVariable(StateVar, 2, NewFact("r"), nil)
	if err := s.Assign(extra, true); err != nil {
		t.Fatal(err)
	}
	if s.Domain(extra) != DomainTrue {
		t.Fatal("assignment should narrow the new variable")
	}
	s.Undo(mark)
	if s.Domain(extra) != DomainBoth {
		t.Error("Undo should restore only changes after the mark")
	}
	if !s.Fixed(b) {
		t.Error("Undo rolled back changes made before the mark")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s, a, _, _ := tinyStore()
	if err := s.Propagate(); err != nil {
		t.Fatal(err)
	}
	clone := s.Clone()

	// The clone shares structure but not domains.
	other := clone.FirstUnfixed()
	if other != -1 {
		t.Fatalf("clone of a fully propagated tiny store should be fully fixed, got unfixed %d", other)
	}
	if clone.Value(a) != s.Value(a) {
		t.Error("clone should start from the source's domains")
	}
}
