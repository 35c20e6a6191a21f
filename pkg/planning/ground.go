// Grounding expands parameterized action schemas over the problem's typed
// objects into a finite set of ground actions. It is a pure function of
// (domain, problem): no state is created, and all symbol/type validation
// the core performs happens here, before any encoding or search work.
package planning

import (
	"sort"
	"strconv"
)

// GroundAction is an action schema with all parameters bound to concrete
// objects: a name, the bound argument tuple, and ground precondition,
// add-effect and delete-effect fact sets. Add and delete effects are
// disjoint by construction. GroundActions are immutable after grounding.
type GroundAction struct {
	Name string
	Args []string
	Pre  []Fact
	Add  []Fact
	Del  []Fact
}

// Signature returns the canonical rendering of the ground action,
// e.g. "move(robr, loc1, loc2)". Signatures are unique within one
// grounding and provide the stable sort order for deterministic encoding.
func (a *GroundAction) Signature() string { return render(a.Name, a.Args) }

// String returns the action's signature.
func (a *GroundAction) String() string { return a.Signature() }

// Apply returns the successor state: delete effects are removed first,
// then add effects inserted. The receiver state is not modified.
func (a *GroundAction) Apply(s State) State {
	next := s.Clone()
	for _, f := range a.Del {
		delete(next.facts, f.Key())
	}
	for _, f := range a.Add {
		next.facts[f.Key()] = f
	}
	return next
}

// Applicable reports whether every precondition holds in the state.
func (a *GroundAction) Applicable(s State) bool {
	for _, f := range a.Pre {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// vacuous reports whether executing the action can never change a state:
// no delete effects and every add effect already among the preconditions.
// The encoder excludes such actions from layers.
func (a *GroundAction) vacuous() bool {
	if len(a.Del) > 0 {
		return false
	}
	for _, add := range a.Add {
		found := false
		for _, pre := range a.Pre {
			if add.Equal(pre) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Ground expands every action schema of the domain over the problem's
// objects, returning all type-consistent ground actions in deterministic
// order (schema declaration order, then lexicographic argument tuples).
//
// It fails with *UnknownSymbolError if the problem or a schema references
// an object, type or predicate the domain does not declare, and with
// *TypeMismatchError if a fact or schema literal applies a predicate to
// arguments of unacceptable type.
func Ground(d *Domain, p *Problem) ([]*GroundAction, error) {
	types := newTypeIndex(d)

	if err := validateObjects(p, types); err != nil {
		return nil, err
	}
	for _, f := range p.Init {
		if err := validateFact(d, p, types, f, "initial state"); err != nil {
			return nil, err
		}
	}
	for _, lit := range p.Goal {
		if err := validateFact(d, p, types, lit.Fact, "goal"); err != nil {
			return nil, err
		}
	}

	var out []*GroundAction
	for i := range d.Actions {
		schema := &d.Actions[i]
		if err := validateSchema(d, types, schema); err != nil {
			return nil, err
		}
		candidates, err := parameterCandidates(p, types, schema)
		if err != nil {
			return nil, err
		}
		enumerate(schema, candidates, func(binding map[string]string) {
			out = append(out, instantiate(schema, binding))
		})
	}
	return out, nil
}

// GroundReachable grounds the problem and then discards actions that can
// never fire under the delete-free relaxation of the problem: starting
// from the initial state, actions are applied ignoring delete effects
// until a fixed point, and only actions whose preconditions were reached
// survive. The pruning is conservative (a relaxation over-approximates
// reachability), so it is an optimization only, never required for
// correctness.
func GroundReachable(d *Domain, p *Problem) ([]*GroundAction, error) {
	actions, err := Ground(d, p)
	if err != nil {
		return nil, err
	}

	reached := make(map[string]bool, len(p.Init))
	for _, f := range p.Init {
		reached[f.Key()] = true
	}
	fired := make([]bool, len(actions))
	for {
		changed := false
		for i, a := range actions {
			if fired[i] {
				continue
			}
			ok := true
			for _, f := range a.Pre {
				if !reached[f.Key()] {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			fired[i] = true
			for _, f := range a.Add {
				if !reached[f.Key()] {
					reached[f.Key()] = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	pruned := make([]*GroundAction, 0, len(actions))
	for i, a := range actions {
		if fired[i] {
			pruned = append(pruned, a)
		}
	}
	return pruned, nil
}

// validateObjects checks that every object's type is declared.
func validateObjects(p *Problem, types *typeIndex) error {
	for _, o := range p.Objects {
		if !types.declared(o.Type) {
			return &UnknownSymbolError{Kind: "type", Name: o.Type, Context: "object " + o.Name}
		}
	}
	return nil
}

// validateFact checks a ground fact against the domain's predicate
// signatures and the problem's object declarations.
func validateFact(d *Domain, p *Problem, types *typeIndex, f Fact, where string) error {
	sig, ok := d.predicate(f.Predicate)
	if !ok {
		return &UnknownSymbolError{Kind: "predicate", Name: f.Predicate, Context: where}
	}
	if len(f.Args) != sig.Arity() {
		return &TypeMismatchError{
			Context:  where + " fact " + f.Key(),
			Argument: f.Predicate,
			Got:      "arity " + strconv.Itoa(len(f.Args)),
			Want:     "arity " + strconv.Itoa(sig.Arity()),
		}
	}
	for i, arg := range f.Args {
		obj, ok := p.object(arg)
		if !ok {
			return &UnknownSymbolError{Kind: "object", Name: arg, Context: where + " fact " + f.Key()}
		}
		if !types.compatible(obj.Type, sig.ParamTypes[i]) {
			return &TypeMismatchError{
				Context:  where + " fact " + f.Key(),
				Argument: arg,
				Got:      obj.Type,
				Want:     sig.ParamTypes[i],
			}
		}
	}
	return nil
}

// validateSchema checks every literal of a schema: declared predicate,
// matching arity, and each parameter's declared type acceptable for the
// predicate slot it fills.
func validateSchema(d *Domain, types *typeIndex, schema *ActionSchema) error {
	paramType := make(map[string]string, len(schema.Params))
	for _, prm := range schema.Params {
		if !types.declared(prm.Type) {
			return &UnknownSymbolError{Kind: "type", Name: prm.Type, Context: "action " + schema.Name}
		}
		paramType[prm.Name] = prm.Type
	}
	groups := [][]SchemaLiteral{schema.Pre, schema.Add, schema.Del}
	for _, group := range groups {
		for _, lit := range group {
			sig, ok := d.predicate(lit.Predicate)
			if !ok {
				return &UnknownSymbolError{Kind: "predicate", Name: lit.Predicate, Context: "action " + schema.Name}
			}
			if len(lit.Args) != sig.Arity() {
				return &TypeMismatchError{
					Context:  "action " + schema.Name,
					Argument: lit.Predicate,
					Got:      "arity " + strconv.Itoa(len(lit.Args)),
					Want:     "arity " + strconv.Itoa(sig.Arity()),
				}
			}
			for i, arg := range lit.Args {
				got, ok := paramType[arg]
				if !ok {
					// Constants inside schema literals are resolved at
					// instantiation time against the problem's objects;
					// here we only require parameters to be declared.
					continue
				}
				if !types.compatible(got, sig.ParamTypes[i]) {
					return &TypeMismatchError{
						Context:  "action " + schema.Name,
						Argument: arg,
						Got:      got,
						Want:     sig.ParamTypes[i],
					}
				}
			}
		}
	}
	return nil
}

// parameterCandidates collects, per schema parameter, the objects whose
// type is compatible, sorted by name for deterministic enumeration.
func parameterCandidates(p *Problem, types *typeIndex, schema *ActionSchema) ([][]string, error) {
	candidates := make([][]string, len(schema.Params))
	for i, prm := range schema.Params {
		var names []string
		for _, o := range p.Objects {
			if types.compatible(o.Type, prm.Type) {
				names = append(names, o.Name)
			}
		}
		sort.Strings(names)
		candidates[i] = names
	}
	return candidates, nil
}

// enumerate walks the cartesian product of candidate objects, invoking fn
// with a complete parameter binding for each combination. Lexicographic
// order falls out of the sorted candidate lists.
func enumerate(schema *ActionSchema, candidates [][]string, fn func(binding map[string]string)) {
	binding := make(map[string]string, len(schema.Params))
	var walk func(i int)
	walk = func(i int) {
		if i == len(schema.Params) {
			fn(binding)
			return
		}
		for _, name := range candidates[i] {
			binding[schema.Params[i].Name] = name
			walk(i + 1)
		}
	}
	walk(0)
}

// instantiate substitutes a binding into a schema's literals, producing a
// ground action. A fact that appears in both the add and delete lists
// resolves to added ("add wins"), keeping the two sets disjoint.
func instantiate(schema *ActionSchema, binding map[string]string) *GroundAction {
	args := make([]string, len(schema.Params))
	for i, prm := range schema.Params {
		args[i] = binding[prm.Name]
	}
	a := &GroundAction{
		Name: schema.Name,
		Args: args,
		Pre:  substitute(schema.Pre, binding),
		Add:  substitute(schema.Add, binding),
	}
	for _, f := range substitute(schema.Del, binding) {
		added := false
		for _, add := range a.Add {
			if add.Equal(f) {
				added = true
				break
			}
		}
		if !added {
			a.Del = append(a.Del, f)
		}
	}
	return a
}

// substitute binds a literal list into ground facts. Arguments that are
// not schema parameters are treated as object constants and pass through.
func substitute(lits []SchemaLiteral, binding map[string]string) []Fact {
	out := make([]Fact, len(lits))
	for i, lit := range lits {
		args := make([]string, len(lit.Args))
		for j, arg := range lit.Args {
			if bound, ok := binding[arg]; ok {
				args[j] = bound
			} else {
				args[j] = arg
			}
		}
		out[i] = Fact{Predicate: lit.Predicate, Args: args}
	}
	return out
}
