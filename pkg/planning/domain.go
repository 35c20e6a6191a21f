// This file defines the parsed planning-domain representation the core
// consumes: typed objects, predicate signatures, action schemas, facts and
// states. The representation is trusted to be syntactically well-formed by
// whoever produced it (typically the pddl package); the core validates only
// type and symbol consistency, at grounding time.
package planning

import (
	"fmt"
	"sort"
	"strings"
)

// RootType is the implicit top of the type hierarchy. Every declared type
// without an explicit parent descends from it, and a parameter typed as
// RootType accepts any object.
const RootType = "object"

// Type is a node in the domain's type hierarchy. A Type with an empty
// Parent descends directly from RootType.
type Type struct {
	Name   string
	Parent string
}

// Object is a named entity with a type. Immutable once created.
type Object struct {
	Name string
	Type string
}

// PredicateSignature declares a predicate name together with the types its
// arguments must satisfy, in positional order.
type PredicateSignature struct {
	Name       string
	ParamTypes []string
}

// Arity returns the number of arguments the predicate takes.
func (sig PredicateSignature) Arity() int { return len(sig.ParamTypes) }

// Parameter is a typed formal parameter of an action schema.
type Parameter struct {
	Name string
	Type string
}

// SchemaLiteral is a predicate applied to schema parameters and/or object
// constants, as it appears inside an action schema. Each argument is either
// a parameter name (bound at grounding time) or an object name.
type SchemaLiteral struct {
	Predicate string
	Args      []string
}

// ActionSchema is a parameterized action: preconditions that must hold,
// add effects that become true, and delete effects that become false, all
// over the schema's typed parameters.
type ActionSchema struct {
	Name   string
	Params []Parameter
	Pre    []SchemaLiteral
	Add    []SchemaLiteral
	Del    []SchemaLiteral
}

// Domain is the planning domain: the type hierarchy, the predicate
// vocabulary and the action schemas.
type Domain struct {
	Name       string
	Types      []Type
	Predicates []PredicateSignature
	Actions    []ActionSchema
}

// Literal is a fact or its negation, used in goal conditions.
type Literal struct {
	Fact    Fact
	Negated bool
}

// Problem is one planning problem over a domain: the objects, the facts
// true initially (closed world: unlisted facts are false), and the goal.
type Problem struct {
	Name    string
	Objects []Object
	Init    []Fact
	Goal    []Literal
}

// Fact is a predicate instance: a predicate name applied to an ordered
// tuple of object names. Facts are the atoms of a state.
type Fact struct {
	Predicate string
	Args      []string
}

// NewFact builds a fact from a predicate name and object names.
func NewFact(predicate string, args ...string) Fact {
	return Fact{Predicate: predicate, Args: args}
}

// Key returns the canonical rendering of the fact, used as a map key and
// as the stable sort key for deterministic encoding order.
func (f Fact) Key() string {
	if len(f.Args) == 0 {
		return f.Predicate
	}
	return f.Predicate + "(" + strings.Join(f.Args, ", ") + ")"
}

// String returns the canonical rendering of the fact.
func (f Fact) String() string { return f.Key() }

// Equal reports whether two facts have the same predicate and arguments.
func (f Fact) Equal(other Fact) bool {
	if f.Predicate != other.Predicate || len(f.Args) != len(other.Args) {
		return false
	}
	for i := range f.Args {
		if f.Args[i] != other.Args[i] {
			return false
		}
	}
	return true
}

// State is a set of facts interpreted under the closed-world assumption:
// facts not in the set are false.
type State struct {
	facts map[string]Fact
}

// NewState builds a state containing the given facts.
func NewState(facts ...Fact) State {
	s := State{facts: make(map[string]Fact, len(facts))}
	for _, f := range facts {
		s.facts[f.Key()] = f
	}
	return s
}

// Has reports whether the fact holds in the state.
func (s State) Has(f Fact) bool {
	_, ok := s.facts[f.Key()]
	return ok
}

// Len returns the number of facts in the state.
func (s State) Len() int { return len(s.facts) }

// Facts returns the facts of the state sorted by their canonical key.
func (s State) Facts() []Fact {
	out := make([]Fact, 0, len(s.facts))
	for _, f := range s.facts {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	c := State{facts: make(map[string]Fact, len(s.facts))}
	for k, f := range s.facts {
		c.facts[k] = f
	}
	return c
}

// Satisfies reports whether the state satisfies every goal literal:
// positive literals must be present, negated literals absent.
func (s State) Satisfies(goal []Literal) bool {
	for _, lit := range goal {
		if s.Has(lit.Fact) == lit.Negated {
			return false
		}
	}
	return true
}

// String renders the state as a sorted fact list, for debugging.
func (s State) String() string {
	keys := make([]string, 0, len(s.facts))
	for k := range s.facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "{" + strings.Join(keys, " ") + "}"
}

// typeIndex resolves type-compatibility queries against a domain's
// hierarchy. Built once per grounding run.
type typeIndex struct {
	parent map[string]string
}

func newTypeIndex(d *Domain) *typeIndex {
	idx := &typeIndex{parent: make(map[string]string, len(d.Types)+1)}
	for _, t := range d.Types {
		p := t.Parent
		if p == "" && t.Name != RootType {
			p = RootType
		}
		idx.parent[t.Name] = p
	}
	return idx
}

// declared reports whether the type name is known to the domain.
// RootType is always declared.
func (idx *typeIndex) declared(name string) bool {
	if name == RootType {
		return true
	}
	_, ok := idx.parent[name]
	return ok
}

// compatible reports whether an object of type got may fill a slot that
// requires type want, walking the hierarchy upward from got.
func (idx *typeIndex) compatible(got, want string) bool {
	if want == RootType {
		return true
	}
	for cur := got; cur != ""; {
		if cur == want {
			return true
		}
		if cur == RootType {
			break
		}
		next, ok := idx.parent[cur]
		if !ok {
			break
		}
		cur = next
	}
	return false
}

// predicate looks up a predicate signature by name.
func (d *Domain) predicate(name string) (PredicateSignature, bool) {
	for _, sig := range d.Predicates {
		if sig.Name == name {
			return sig, true
		}
	}
	return PredicateSignature{}, false
}

// object looks up an object declared by the problem.
func (p *Problem) object(name string) (Object, bool) {
	for _, o := range p.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return Object{}, false
}

// render formats an action name with bound arguments, shared by
// GroundAction and error messages.
func render(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}
