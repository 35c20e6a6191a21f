// The constraint store owns variable domains and the constraint list for
// the duration of one solve call. It supports arc-consistency style
// propagation driven by a constraint work queue, and backtrack-safe
// mutation through a trail: Checkpoint captures the trail length, Undo
// replays the trail backward to restore exactly the domains as of the
// checkpoint, in O(changes since checkpoint) rather than a full copy.
//
// The store is not safe for concurrent mutation. Parallel search operates
// on independent Clones (see Solver.SolveParallel).
package planning

import "fmt"

// VarKind distinguishes the two variable families of the layered encoding.
type VarKind int

const (
	// StateVar is a boolean variable "fact f holds at layer k".
	StateVar VarKind = iota

	// ActionVar is a boolean variable "ground action a executes at layer k".
	ActionVar
)

// Variable identifies one boolean CSP variable of the encoding. The
// metadata (kind, layer, fact or action) exists for heuristics, plan
// extraction and diagnostics; the domain itself lives in the store.
type Variable struct {
	ID     int
	Kind   VarKind
	Layer  int
	Fact   Fact          // valid when Kind == StateVar
	Action *GroundAction // valid when Kind == ActionVar
}

// Name renders the variable for diagnostics, e.g. "state[2] at(robr, loc1)"
// or "action[1] move(robr, loc1, loc2)".
func (v *Variable) Name() string {
	if v.Kind == ActionVar {
		return fmt.Sprintf("action[%d] %s", v.Layer, v.Action.Signature())
	}
	return fmt.Sprintf("state[%d] %s", v.Layer, v.Fact.Key())
}

// BoolDomain is the set of boolean values still possible for a variable,
// represented as a two-bit mask.
type BoolDomain uint8

const (
	// DomainEmpty is the inconsistent domain: no value possible.
	DomainEmpty BoolDomain = 0

	// DomainFalse admits only false.
	DomainFalse BoolDomain = 1 << 0

	// DomainTrue admits only true.
	DomainTrue BoolDomain = 1 << 1

	// DomainBoth admits both values (the unassigned state).
	DomainBoth BoolDomain = DomainFalse | DomainTrue
)

// Has reports whether the value is still in the domain.
func (d BoolDomain) Has(value bool) bool {
	if value {
		return d&DomainTrue != 0
	}
	return d&DomainFalse != 0
}

// Count returns the number of values in the domain.
func (d BoolDomain) Count() int {
	n := 0
	if d&DomainFalse != 0 {
		n++
	}
	if d&DomainTrue != 0 {
		n++
	}
	return n
}

// IsSingleton reports whether exactly one value remains.
func (d BoolDomain) IsSingleton() bool { return d == DomainTrue || d == DomainFalse }

// SingletonValue returns the single remaining value. Only meaningful when
// IsSingleton is true.
func (d BoolDomain) SingletonValue() bool { return d == DomainTrue }

// Remove returns the domain with the value removed.
func (d BoolDomain) Remove(value bool) BoolDomain {
	if value {
		return d &^ DomainTrue
	}
	return d &^ DomainFalse
}

// String renders the domain for debugging.
func (d BoolDomain) String() string {
	switch d {
	case DomainEmpty:
		return "{}"
	case DomainFalse:
		return "{false}"
	case DomainTrue:
		return "{true}"
	default:
		return "{false true}"
	}
}

// Mark is an opaque token capturing a point in the store's trail.
type Mark int

// trailEntry records one domain change so Undo can restore it.
type trailEntry struct {
	varID int
	old   BoolDomain
}

// ConstraintStore holds the variables, their current domains, and the
// constraints of one layered encoding. Variables and constraints are
// created once by the encoder and are immutable thereafter; only the
// domains and the trail mutate during search.
type ConstraintStore struct {
	vars        []*Variable
	domains     []BoolDomain
	constraints []Constraint

	// watchers[v] lists the indices of constraints mentioning variable v,
	// re-enqueued whenever v's domain shrinks.
	watchers [][]int

	trail []trailEntry

	// queue holds indices of constraints pending (re-)evaluation; queued
	// deduplicates insertions.
	queue  []int
	queued []bool
}

// NewConstraintStore creates an empty store. The encoder populates it.
func NewConstraintStore() *ConstraintStore {
	return &ConstraintStore{}
}

// AddVariable registers a variable with a full boolean domain and returns
// its ID. Only the encoder calls this.
func (s *ConstraintStore) AddVariable(kind VarKind, layer int, fact Fact, action *GroundAction) int {
	id := len(s.vars)
	s.vars = append(s.vars, &Variable{ID: id, Kind: kind, Layer: layer, Fact: fact, Action: action})
	s.domains = append(s.domains, DomainBoth)
	s.watchers = append(s.watchers, nil)
	return id
}

// AddConstraint registers a constraint, wires it to the variables it
// mentions, and schedules it for the first propagation pass.
func (s *ConstraintStore) AddConstraint(c Constraint) {
	idx := len(s.constraints)
	s.constraints = append(s.constraints, c)
	for _, v := range c.Variables() {
		s.watchers[v] = append(s.watchers[v], idx)
	}
	s.queue = append(s.queue, idx)
	s.queued = append(s.queued, true)
}

// Variables returns the store's variables in creation order. The returned
// slice must not be modified.
func (s *ConstraintStore) Variables() []*Variable { return s.vars }

// Constraints returns the store's constraints in creation order. The
// returned slice must not be modified.
func (s *ConstraintStore) Constraints() []Constraint { return s.constraints }

// Domain returns the current domain of the variable.
func (s *ConstraintStore) Domain(varID int) BoolDomain { return s.domains[varID] }

// Fixed reports whether the variable's domain is a singleton.
func (s *ConstraintStore) Fixed(varID int) bool { return s.domains[varID].IsSingleton() }

// Value returns the variable's value. Only meaningful when Fixed is true.
func (s *ConstraintStore) Value(varID int) bool { return s.domains[varID].SingletonValue() }

// Assign restricts the variable's domain to a single value. It returns
// ErrConflict if the value is no longer in the domain. Propagation is not
// run automatically; callers follow Assign with Propagate.
func (s *ConstraintStore) Assign(varID int, value bool) error {
	return s.prune(varID, !value)
}

// prune removes a value from a variable's domain, logging the change on
// the trail and enqueueing the variable's watchers. Removing a value that
// is already absent is a no-op. Returns ErrConflict if the domain empties.
func (s *ConstraintStore) prune(varID int, value bool) error {
	old := s.domains[varID]
	if !old.Has(value) {
		return nil
	}
	next := old.Remove(value)
	s.trail = append(s.trail, trailEntry{varID: varID, old: old})
	s.domains[varID] = next
	if next == DomainEmpty {
		return fmt.Errorf("%w: domain of %s emptied", ErrConflict, s.vars[varID].Name())
	}
	for _, ci := range s.watchers[varID] {
		s.enqueue(ci)
	}
	return nil
}

func (s *ConstraintStore) enqueue(constraintIdx int) {
	if s.queued[constraintIdx] {
		return
	}
	s.queued[constraintIdx] = true
	s.queue = append(s.queue, constraintIdx)
}

// Propagate runs all pending constraints to a fixed point: whenever a
// constraint prunes a domain, every constraint watching the pruned
// variable is re-evaluated. It returns ErrConflict if any domain empties.
// With no intervening Assign, a second Propagate finds an empty queue and
// leaves every domain untouched (idempotence).
//
// On conflict the pending queue is cleared; the caller is expected to Undo
// to a checkpoint taken at a fixed point, after which the cleared queue is
// again consistent with the restored domains.
func (s *ConstraintStore) Propagate() error {
	for len(s.queue) > 0 {
		ci := s.queue[0]
		s.queue = s.queue[1:]
		s.queued[ci] = false
		if err := s.constraints[ci].propagate(s); err != nil {
			s.clearQueue()
			return err
		}
	}
	return nil
}

func (s *ConstraintStore) clearQueue() {
	for _, ci := range s.queue {
		s.queued[ci] = false
	}
	s.queue = s.queue[:0]
}

// Checkpoint captures the current trail position. Checkpoints must be
// taken at propagation fixed points (empty queue) for Undo to restore a
// consistent state.
func (s *ConstraintStore) Checkpoint() Mark {
	return Mark(len(s.trail))
}

// Undo replays the trail backward to the checkpoint, restoring domains
// exactly as they were, and drops any pending propagation work.
func (s *ConstraintStore) Undo(cp Mark) {
	for len(s.trail) > int(cp) {
		entry := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		s.domains[entry.varID] = entry.old
	}
	s.clearQueue()
}

// FirstUnfixed returns the ID of the first variable (in creation order)
// whose domain is not a singleton, or -1 when every variable is fixed.
func (s *ConstraintStore) FirstUnfixed() int {
	for id, d := range s.domains {
		if !d.IsSingleton() {
			return id
		}
	}
	return -1
}

// Clone returns a store with independent domains and an empty trail,
// sharing the immutable variables, constraints and watcher lists. Each
// parallel search branch operates on its own clone.
func (s *ConstraintStore) Clone() *ConstraintStore {
	domains := make([]BoolDomain, len(s.domains))
	copy(domains, s.domains)
	return &ConstraintStore{
		vars:        s.vars,
		domains:     domains,
		constraints: s.constraints,
		watchers:    s.watchers,
		queued:      make([]bool, len(s.constraints)),
	}
}
