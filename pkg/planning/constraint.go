// Constraint types of the layered encoding. Each constraint is a relation
// over a subset of store variables tagged by kind, with a propagate method
// that prunes domains to arc consistency for that relation. Pruning goes
// through ConstraintStore.prune, which logs the trail and re-enqueues
// watching constraints, so the store's Propagate loop reaches a fixed
// point across all constraints.
package planning

import (
	"fmt"
	"strings"
)

// ConstraintKind tags a constraint with its role in the encoding.
type ConstraintKind int

const (
	// KindInitial fixes a state variable at layer 0 (closed world).
	KindInitial ConstraintKind = iota

	// KindGoal fixes a state variable at layer H.
	KindGoal

	// KindPrecondition is "action executes at k ⇒ fact holds at k".
	KindPrecondition

	// KindEffect is "action executes at k ⇒ fact holds (or not) at k+1".
	KindEffect

	// KindFrame ties a fact at k+1 to persistence or an adding action at k.
	KindFrame

	// KindExclusion enforces the one-action-per-step rule at a layer, and
	// the pairwise interference mutexes when enabled.
	KindExclusion
)

// String returns a human-readable kind name.
func (k ConstraintKind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindGoal:
		return "goal"
	case KindPrecondition:
		return "precondition"
	case KindEffect:
		return "effect"
	case KindFrame:
		return "frame"
	case KindExclusion:
		return "exclusion"
	default:
		return "unknown"
	}
}

// Constraint is a relation over a subset of variables that any satisfying
// assignment must honor. Implementations are immutable after encoding and
// mutate only the store they are handed, through its trail.
type Constraint interface {
	// Kind returns the constraint's role tag.
	Kind() ConstraintKind

	// Variables returns the IDs of the variables the constraint mentions.
	Variables() []int

	// String returns a human-readable rendering for diagnostics.
	String() string

	// propagate prunes domains in the store to arc consistency for this
	// constraint, returning ErrConflict if a domain empties.
	propagate(s *ConstraintStore) error
}

// unary fixes a single variable to a value. Used for the initial state
// (layer 0, closed world) and the goal (layer H).
type unary struct {
	kind  ConstraintKind
	varID int
	value bool
}

func (c *unary) Kind() ConstraintKind { return c.kind }
func (c *unary) Variables() []int     { return []int{c.varID} }

func (c *unary) String() string {
	return fmt.Sprintf("%s: v%d = %t", c.kind, c.varID, c.value)
}

func (c *unary) propagate(s *ConstraintStore) error {
	return s.prune(c.varID, !c.value)
}

// implication is "condVar = condVal ⇒ thenVar = thenVal". Used for
// preconditions (action at k ⇒ fact at k) and effects (action at k ⇒
// fact value at k+1). Propagation works both directions: once the
// condition is fixed true the consequence is forced, and once the
// consequence is impossible the condition is forced false.
type implication struct {
	kind    ConstraintKind
	condVar int
	condVal bool
	thenVar int
	thenVal bool
}

func (c *implication) Kind() ConstraintKind { return c.kind }
func (c *implication) Variables() []int     { return []int{c.condVar, c.thenVar} }

func (c *implication) String() string {
	return fmt.Sprintf("%s: v%d=%t => v%d=%t", c.kind, c.condVar, c.condVal, c.thenVar, c.thenVal)
}

func (c *implication) propagate(s *ConstraintStore) error {
	cond := s.Domain(c.condVar)
	if cond.IsSingleton() && cond.SingletonValue() == c.condVal {
		return s.prune(c.thenVar, !c.thenVal)
	}
	if !s.Domain(c.thenVar).Has(c.thenVal) {
		return s.prune(c.condVar, c.condVal)
	}
	return nil
}

// frame ties a state variable at layer k+1 to its justifications at layer
// k: the fact holds after the step iff it was already true and no
// executing action deletes it, or some executing action adds it. The
// symmetric reading justifies remaining false. adders and deleters are the
// action variables at layer k whose action adds, respectively deletes,
// the fact.
type frame struct {
	fact     Fact
	layer    int // the earlier layer k
	before   int // state var at k
	after    int // state var at k+1
	adders   []int
	deleters []int
}

func (c *frame) Kind() ConstraintKind { return KindFrame }

func (c *frame) Variables() []int {
	vars := make([]int, 0, 2+len(c.adders)+len(c.deleters))
	vars = append(vars, c.before, c.after)
	vars = append(vars, c.adders...)
	vars = append(vars, c.deleters...)
	return vars
}

func (c *frame) String() string {
	return fmt.Sprintf("frame: %s @%d->%d (%d adders, %d deleters)",
		c.fact.Key(), c.layer, c.layer+1, len(c.adders), len(c.deleters))
}

func (c *frame) propagate(s *ConstraintStore) error {
	before := s.Domain(c.before)
	after := s.Domain(c.after)

	anyAdderCanRun, anyAdderMustRun := groupStatus(s, c.adders)
	anyDeleterCanRun, anyDeleterMustRun := groupStatus(s, c.deleters)

	// Forward pruning of the successor variable.
	canPersist := before.Has(true) && !anyDeleterMustRun
	if !anyAdderCanRun && !canPersist {
		if err := s.prune(c.after, true); err != nil {
			return err
		}
	}
	canStayFalse := !anyAdderMustRun && (before.Has(false) || anyDeleterCanRun)
	if !canStayFalse {
		if err := s.prune(c.after, false); err != nil {
			return err
		}
	}

	// Backward pruning once the successor is fixed.
	after = s.Domain(c.after)
	if !after.IsSingleton() {
		return nil
	}
	if after.SingletonValue() {
		// True at k+1 with no adder able to run means the fact must have
		// persisted: true at k, and every deleter idle.
		if !anyAdderCanRun {
			if err := s.prune(c.before, false); err != nil {
				return err
			}
			for _, d := range c.deleters {
				if err := s.prune(d, true); err != nil {
					return err
				}
			}
		}
		// Persistence ruled out: exactly one adder candidate must run.
		if !canPersist && !anyAdderMustRun {
			if only, ok := soleCandidate(s, c.adders); ok {
				if err := s.prune(only, false); err != nil {
					return err
				}
			}
		}
		return nil
	}

	// False at k+1: no adder may run, and if the fact held at k some
	// deleter must have run.
	for _, a := range c.adders {
		if err := s.prune(a, true); err != nil {
			return err
		}
	}
	if !anyDeleterCanRun {
		// Nothing can delete the fact, so it cannot have held at k.
		if err := s.prune(c.before, true); err != nil {
			return err
		}
		return nil
	}
	if before.IsSingleton() && before.SingletonValue() && !anyDeleterMustRun {
		if only, ok := soleCandidate(s, c.deleters); ok {
			if err := s.prune(only, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// groupStatus summarizes a set of action variables: whether any may still
// be true, and whether any is already fixed true.
func groupStatus(s *ConstraintStore, vars []int) (canRun, mustRun bool) {
	for _, v := range vars {
		d := s.Domain(v)
		if d.Has(true) {
			canRun = true
			if d.IsSingleton() {
				mustRun = true
				return
			}
		}
	}
	return
}

// soleCandidate returns the single variable in vars that may still be
// true, if exactly one remains.
func soleCandidate(s *ConstraintStore, vars []int) (int, bool) {
	only := -1
	for _, v := range vars {
		if s.Domain(v).Has(true) {
			if only != -1 {
				return -1, false
			}
			only = v
		}
	}
	return only, only != -1
}

// exactlyOne enforces the single-action-per-step rule: of the action
// variables at one layer, exactly one is true in any satisfying
// assignment. An empty variable set is immediately inconsistent, which is
// how a positive horizon with no usable ground actions fails.
type exactlyOne struct {
	layer int
	vars  []int
}

func (c *exactlyOne) Kind() ConstraintKind { return KindExclusion }
func (c *exactlyOne) Variables() []int     { return c.vars }

func (c *exactlyOne) String() string {
	ids := make([]string, len(c.vars))
	for i, v := range c.vars {
		ids[i] = fmt.Sprintf("v%d", v)
	}
	return fmt.Sprintf("exactly-one@%d(%s)", c.layer, strings.Join(ids, ","))
}

func (c *exactlyOne) propagate(s *ConstraintStore) error {
	fixedTrue := -1
	candidates := 0
	lastCandidate := -1
	for _, v := range c.vars {
		d := s.Domain(v)
		if !d.Has(true) {
			continue
		}
		candidates++
		lastCandidate = v
		if d.IsSingleton() {
			if fixedTrue != -1 {
				return fmt.Errorf("%w: two actions fixed at layer %d", ErrConflict, c.layer)
			}
			fixedTrue = v
		}
	}
	if candidates == 0 {
		return fmt.Errorf("%w: no action possible at layer %d", ErrConflict, c.layer)
	}
	if fixedTrue != -1 {
		for _, v := range c.vars {
			if v == fixedTrue {
				continue
			}
			if err := s.prune(v, true); err != nil {
				return err
			}
		}
		return nil
	}
	if candidates == 1 {
		return s.prune(lastCandidate, false)
	}
	return nil
}

// mutex forbids two interfering actions from both executing at the same
// layer. Redundant under the exactly-one rule, but kept for extensibility
// toward parallel-plan encodings (see EncodeOptions.InterferenceMutexes).
type mutex struct {
	layer int
	a, b  int
}

func (c *mutex) Kind() ConstraintKind { return KindExclusion }
func (c *mutex) Variables() []int     { return []int{c.a, c.b} }

func (c *mutex) String() string {
	return fmt.Sprintf("mutex@%d(v%d,v%d)", c.layer, c.a, c.b)
}

func (c *mutex) propagate(s *ConstraintStore) error {
	da := s.Domain(c.a)
	if da.IsSingleton() && da.SingletonValue() {
		return s.prune(c.b, true)
	}
	db := s.Domain(c.b)
	if db.IsSingleton() && db.SingletonValue() {
		return s.prune(c.a, true)
	}
	return nil
}
