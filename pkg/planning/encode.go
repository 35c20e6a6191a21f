// The layer encoder translates (ground actions, initial state, goal,
// horizon) into a populated constraint store: one boolean state variable
// per fact per layer 0..H, one boolean action variable per usable ground
// action per layer 0..H-1, and the initial, goal, precondition, effect,
// frame and mutual-exclusion constraints wiring consecutive layers.
//
// Variable and constraint creation order is stable — facts sorted by
// canonical key, actions by signature, layer-major — so solver behavior
// and produced plans are reproducible across runs on the same input.
package planning

import "sort"

// EncodeOptions tunes the encoding. The zero value is the default
// single-action-per-step encoding.
type EncodeOptions struct {
	// InterferenceMutexes additionally posts pairwise mutexes between
	// interfering actions at the same layer (one's delete effects touch the
	// other's preconditions or add effects). Redundant while the
	// exactly-one rule is in force; kept for extensibility toward
	// parallel-plan encodings.
	InterferenceMutexes bool
}

// Encoding maps the planning-level view (facts, actions, layers) onto
// store variable IDs, for the solver's heuristics and plan extraction.
type Encoding struct {
	Horizon int

	// Facts is the fact universe in encoding order (sorted by key).
	Facts []Fact

	// Actions is the usable ground action set in encoding order (sorted by
	// signature, vacuous actions excluded).
	Actions []*GroundAction

	stateVars  map[string][]int // fact key -> var ID per layer 0..H
	actionVars [][]int          // layer -> var ID per action index
}

// StateVar returns the variable ID of the fact at the layer, or -1 if the
// fact is outside the encoded universe.
func (e *Encoding) StateVar(f Fact, layer int) int {
	ids, ok := e.stateVars[f.Key()]
	if !ok || layer < 0 || layer > e.Horizon {
		return -1
	}
	return ids[layer]
}

// ActionVar returns the variable ID of the action (by index into
// e.Actions) at the action layer.
func (e *Encoding) ActionVar(actionIdx, layer int) int {
	return e.actionVars[layer][actionIdx]
}

// Encode builds the constraint store for a fixed-length plan search.
// It fails with *InvalidHorizonError if horizon is negative. The returned
// store is ready for Solver; no propagation has run yet.
func Encode(actions []*GroundAction, init State, goal []Literal, horizon int) (*ConstraintStore, *Encoding, error) {
	return EncodeWithOptions(actions, init, goal, horizon, EncodeOptions{})
}

// EncodeWithOptions is Encode with explicit options.
func EncodeWithOptions(actions []*GroundAction, init State, goal []Literal, horizon int, opts EncodeOptions) (*ConstraintStore, *Encoding, error) {
	if horizon < 0 {
		return nil, nil, &InvalidHorizonError{Horizon: horizon}
	}

	usable := usableActions(actions)
	facts := factUniverse(usable, init, goal)

	enc := &Encoding{
		Horizon:   horizon,
		Facts:     facts,
		Actions:   usable,
		stateVars: make(map[string][]int, len(facts)),
	}
	store := NewConstraintStore()

	// State variables, layer-major.
	for _, f := range facts {
		enc.stateVars[f.Key()] = make([]int, horizon+1)
	}
	for k := 0; k <= horizon; k++ {
		for _, f := range facts {
			enc.stateVars[f.Key()][k] = store.AddVariable(StateVar, k, f, nil)
		}
	}

	// Action variables, layer-major.
	enc.actionVars = make([][]int, horizon)
	for k := 0; k < horizon; k++ {
		enc.actionVars[k] = make([]int, len(usable))
		for i, a := range usable {
			enc.actionVars[k][i] = store.AddVariable(ActionVar, k, Fact{}, a)
		}
	}

	// Initial-state constraints: layer 0 fixed under the closed world.
	for _, f := range facts {
		store.AddConstraint(&unary{
			kind:  KindInitial,
			varID: enc.stateVars[f.Key()][0],
			value: init.Has(f),
		})
	}

	// Goal constraints at layer H.
	for _, lit := range goal {
		store.AddConstraint(&unary{
			kind:  KindGoal,
			varID: enc.stateVars[lit.Fact.Key()][horizon],
			value: !lit.Negated,
		})
	}

	// Per-layer action constraints.
	for k := 0; k < horizon; k++ {
		for i, a := range usable {
			av := enc.actionVars[k][i]
			for _, p := range a.Pre {
				store.AddConstraint(&implication{
					kind:    KindPrecondition,
					condVar: av, condVal: true,
					thenVar: enc.stateVars[p.Key()][k], thenVal: true,
				})
			}
			for _, p := range a.Add {
				store.AddConstraint(&implication{
					kind:    KindEffect,
					condVar: av, condVal: true,
					thenVar: enc.stateVars[p.Key()][k+1], thenVal: true,
				})
			}
			for _, p := range a.Del {
				store.AddConstraint(&implication{
					kind:    KindEffect,
					condVar: av, condVal: true,
					thenVar: enc.stateVars[p.Key()][k+1], thenVal: false,
				})
			}
		}

		// Frame constraints: one per fact, tying layer k+1 to layer k.
		for _, f := range facts {
			var adders, deleters []int
			for i, a := range usable {
				if containsFact(a.Add, f) {
					adders = append(adders, enc.actionVars[k][i])
				}
				if containsFact(a.Del, f) {
					deleters = append(deleters, enc.actionVars[k][i])
				}
			}
			store.AddConstraint(&frame{
				fact:   f,
				layer:  k,
				before: enc.stateVars[f.Key()][k],
				after:  enc.stateVars[f.Key()][k+1],
				adders: adders, deleters: deleters,
			})
		}

		// Exactly one action per step.
		store.AddConstraint(&exactlyOne{layer: k, vars: append([]int(nil), enc.actionVars[k]...)})

		if opts.InterferenceMutexes {
			for i := 0; i < len(usable); i++ {
				for j := i + 1; j < len(usable); j++ {
					if interferes(usable[i], usable[j]) {
						store.AddConstraint(&mutex{
							layer: k,
							a:     enc.actionVars[k][i],
							b:     enc.actionVars[k][j],
						})
					}
				}
			}
		}
	}

	return store, enc, nil
}

// usableActions filters vacuous actions and sorts the rest by signature.
// Vacuous actions (no delete effects, add effects already implied by the
// preconditions) can never advance a plan and would only let the search
// pad layers with no-ops.
func usableActions(actions []*GroundAction) []*GroundAction {
	out := make([]*GroundAction, 0, len(actions))
	for _, a := range actions {
		if !a.vacuous() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature() < out[j].Signature() })
	return out
}

// factUniverse collects every fact mentioned by the actions, the initial
// state or the goal, sorted by canonical key.
func factUniverse(actions []*GroundAction, init State, goal []Literal) []Fact {
	seen := make(map[string]Fact)
	add := func(fs []Fact) {
		for _, f := range fs {
			seen[f.Key()] = f
		}
	}
	for _, a := range actions {
		add(a.Pre)
		add(a.Add)
		add(a.Del)
	}
	add(init.Facts())
	for _, lit := range goal {
		seen[lit.Fact.Key()] = lit.Fact
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Fact, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

func containsFact(fs []Fact, f Fact) bool {
	for _, g := range fs {
		if g.Equal(f) {
			return true
		}
	}
	return false
}

// interferes reports whether two ground actions conflict at the same
// layer: one deletes a precondition or add effect of the other.
func interferes(a, b *GroundAction) bool {
	touches := func(del []Fact, other *GroundAction) bool {
		for _, f := range del {
			if containsFact(other.Pre, f) || containsFact(other.Add, f) {
				return true
			}
		}
		return false
	}
	return touches(a.Del, b) || touches(b.Del, a)
}
