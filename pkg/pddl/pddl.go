// Package pddl reads PDDL domain and problem text into the in-memory
// representation the planning core consumes. Only the classical STRIPS
// fragment is supported: typed objects, boolean predicates, and actions
// with conjunctive preconditions and add/delete effects. Numeric fluents,
// conditional effects and temporal constructs are rejected with errors.
//
// The reader is deliberately permissive about layout (PDDL is whitespace
// and case insensitive) and strict about vocabulary: unknown sections and
// unsupported connectives fail with a position-tagged error rather than
// being skipped.
package pddl

import (
	"fmt"
	"os"
	"strings"

	"github.com/gitrdm/gostrips/pkg/planning"
)

// ParseDomain parses PDDL domain text.
func ParseDomain(src string) (*planning.Domain, error) {
	root, err := parseSexpr(src)
	if err != nil {
		return nil, err
	}
	if err := expectHead(root, "define"); err != nil {
		return nil, err
	}

	d := &planning.Domain{}
	for _, node := range root.list[1:] {
		if !node.isList || len(node.list) == 0 {
			return nil, node.errorf("expected a (section ...) list")
		}
		head := node.list[0].atom
		switch head {
		case "domain":
			if len(node.list) != 2 {
				return nil, node.errorf("malformed (domain name)")
			}
			d.Name = node.list[1].atom
		case ":requirements":
			// Requirement flags are informative only; the supported
			// fragment is fixed.
		case ":types":
			types, err := parseTypedNames(node.list[1:])
			if err != nil {
				return nil, err
			}
			for _, tn := range types {
				d.Types = append(d.Types, planning.Type{Name: tn.name, Parent: tn.typ})
			}
		case ":constants":
			return nil, node.errorf(":constants are not supported; declare objects in the problem")
		case ":predicates":
			for _, pred := range node.list[1:] {
				sig, err := parsePredicate(pred)
				if err != nil {
					return nil, err
				}
				d.Predicates = append(d.Predicates, sig)
			}
		case ":action":
			action, err := parseAction(node)
			if err != nil {
				return nil, err
			}
			d.Actions = append(d.Actions, action)
		default:
			return nil, node.errorf("unsupported domain section %q", head)
		}
	}
	if d.Name == "" {
		return nil, root.errorf("domain has no (domain name) declaration")
	}
	return d, nil
}

// ParseProblem parses PDDL problem text. domainName, when non-empty, must
// match the problem's (:domain ...) declaration.
func ParseProblem(src string, domainName string) (*planning.Problem, error) {
	root, err := parseSexpr(src)
	if err != nil {
		return nil, err
	}
	if err := expectHead(root, "define"); err != nil {
		return nil, err
	}

	p := &planning.Problem{}
	for _, node := range root.list[1:] {
		if !node.isList || len(node.list) == 0 {
			return nil, node.errorf("expected a (section ...) list")
		}
		head := node.list[0].atom
		switch head {
		case "problem":
			if len(node.list) != 2 {
				return nil, node.errorf("malformed (problem name)")
			}
			p.Name = node.list[1].atom
		case ":domain":
			if len(node.list) != 2 {
				return nil, node.errorf("malformed (:domain name)")
			}
			if domainName != "" && node.list[1].atom != domainName {
				return nil, node.errorf("problem is for domain %q, want %q", node.list[1].atom, domainName)
			}
		case ":objects":
			objs, err := parseTypedNames(node.list[1:])
			if err != nil {
				return nil, err
			}
			for _, tn := range objs {
				typ := tn.typ
				if typ == "" {
					typ = planning.RootType
				}
				p.Objects = append(p.Objects, planning.Object{Name: tn.name, Type: typ})
			}
		case ":init":
			for _, node := range node.list[1:] {
				fact, err := parseFact(node)
				if err != nil {
					return nil, err
				}
				p.Init = append(p.Init, fact)
			}
		case ":goal":
			if len(node.list) != 2 {
				return nil, node.errorf("malformed (:goal expr)")
			}
			goal, err := parseGoal(node.list[1])
			if err != nil {
				return nil, err
			}
			p.Goal = goal
		default:
			return nil, node.errorf("unsupported problem section %q", head)
		}
	}
	if p.Name == "" {
		return nil, root.errorf("problem has no (problem name) declaration")
	}
	return p, nil
}

// LoadDomain reads and parses a PDDL domain file.
func LoadDomain(path string) (*planning.Domain, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain: %w", err)
	}
	d, err := ParseDomain(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadProblem reads and parses a PDDL problem file.
func LoadProblem(path string, domainName string) (*planning.Problem, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}
	p, err := ParseProblem(string(src), domainName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// typedName is one entry of a PDDL typed list, e.g. "robr - robot".
type typedName struct {
	name string
	typ  string
}

// parseTypedNames reads a PDDL typed list: names optionally followed by
// "- type", repeated. Names with no type annotation get the empty type,
// which callers map to the root type.
func parseTypedNames(nodes []sexpr) ([]typedName, error) {
	var out []typedName
	pending := 0
	for i := 0; i < len(nodes); i++ {
		node := nodes[i]
		if node.isList {
			return nil, node.errorf("expected a name, got a list")
		}
		if node.atom == "-" {
			if pending == 0 {
				return nil, node.errorf("dangling type separator")
			}
			i++
			if i >= len(nodes) || nodes[i].isList {
				return nil, node.errorf("missing type after separator")
			}
			typ := nodes[i].atom
			for j := len(out) - pending; j < len(out); j++ {
				out[j].typ = typ
			}
			pending = 0
			continue
		}
		out = append(out, typedName{name: node.atom})
		pending++
	}
	return out, nil
}

// parsePredicate reads a (:predicates ...) entry like (at ?r - robot ?l - location).
func parsePredicate(node sexpr) (planning.PredicateSignature, error) {
	if !node.isList || len(node.list) == 0 || node.list[0].isList {
		return planning.PredicateSignature{}, node.errorf("malformed predicate declaration")
	}
	params, err := parseTypedNames(node.list[1:])
	if err != nil {
		return planning.PredicateSignature{}, err
	}
	sig := planning.PredicateSignature{Name: node.list[0].atom}
	for _, prm := range params {
		if !strings.HasPrefix(prm.name, "?") {
			return planning.PredicateSignature{}, node.errorf("predicate parameter %q must start with ?", prm.name)
		}
		typ := prm.typ
		if typ == "" {
			typ = planning.RootType
		}
		sig.ParamTypes = append(sig.ParamTypes, typ)
	}
	return sig, nil
}

// parseAction reads a (:action name :parameters (...) :precondition E :effect E) form.
func parseAction(node sexpr) (planning.ActionSchema, error) {
	var schema planning.ActionSchema
	items := node.list
	if len(items) < 2 || items[1].isList {
		return schema, node.errorf("malformed (:action name ...)")
	}
	schema.Name = items[1].atom

	for i := 2; i < len(items); i += 2 {
		if items[i].isList || i+1 >= len(items) {
			return schema, items[i].errorf("expected :keyword value pairs in action %q", schema.Name)
		}
		key, value := items[i].atom, items[i+1]
		switch key {
		case ":parameters":
			if !value.isList {
				return schema, value.errorf("action %q: :parameters must be a list", schema.Name)
			}
			params, err := parseTypedNames(value.list)
			if err != nil {
				return schema, err
			}
			for _, prm := range params {
				if !strings.HasPrefix(prm.name, "?") {
					return schema, value.errorf("action %q: parameter %q must start with ?", schema.Name, prm.name)
				}
				typ := prm.typ
				if typ == "" {
					typ = planning.RootType
				}
				schema.Params = append(schema.Params, planning.Parameter{Name: prm.name, Type: typ})
			}
		case ":precondition":
			lits, err := parseLiteralConjunction(value)
			if err != nil {
				return schema, err
			}
			for _, lit := range lits {
				if lit.negated {
					return schema, value.errorf("action %q: negative preconditions are not supported", schema.Name)
				}
				schema.Pre = append(schema.Pre, lit.literal)
			}
		case ":effect":
			lits, err := parseLiteralConjunction(value)
			if err != nil {
				return schema, err
			}
			for _, lit := range lits {
				if lit.negated {
					schema.Del = append(schema.Del, lit.literal)
				} else {
					schema.Add = append(schema.Add, lit.literal)
				}
			}
		default:
			return schema, items[i].errorf("action %q: unsupported key %q", schema.Name, key)
		}
	}
	return schema, nil
}

// signedLiteral pairs a schema literal with its sign.
type signedLiteral struct {
	literal planning.SchemaLiteral
	negated bool
}

// parseLiteralConjunction reads a literal, a (not literal), or an (and ...)
// of those.
func parseLiteralConjunction(node sexpr) ([]signedLiteral, error) {
	if !node.isList || len(node.list) == 0 {
		return nil, node.errorf("expected a literal or (and ...)")
	}
	if !node.list[0].isList && node.list[0].atom == "and" {
		var out []signedLiteral
		for _, sub := range node.list[1:] {
			lits, err := parseLiteralConjunction(sub)
			if err != nil {
				return nil, err
			}
			out = append(out, lits...)
		}
		return out, nil
	}
	if !node.list[0].isList && node.list[0].atom == "not" {
		if len(node.list) != 2 {
			return nil, node.errorf("malformed (not literal)")
		}
		inner, err := parseLiteralConjunction(node.list[1])
		if err != nil {
			return nil, err
		}
		if len(inner) != 1 || inner[0].negated {
			return nil, node.errorf("(not ...) must wrap a single positive literal")
		}
		inner[0].negated = true
		return inner, nil
	}
	lit, err := parseSchemaLiteral(node)
	if err != nil {
		return nil, err
	}
	return []signedLiteral{{literal: lit}}, nil
}

// parseSchemaLiteral reads (predicate arg...) where args are parameters or
// object constants.
func parseSchemaLiteral(node sexpr) (planning.SchemaLiteral, error) {
	if !node.isList || len(node.list) == 0 || node.list[0].isList {
		return planning.SchemaLiteral{}, node.errorf("malformed literal")
	}
	lit := planning.SchemaLiteral{Predicate: node.list[0].atom}
	for _, arg := range node.list[1:] {
		if arg.isList {
			return planning.SchemaLiteral{}, arg.errorf("literal arguments must be atoms")
		}
		lit.Args = append(lit.Args, arg.atom)
	}
	return lit, nil
}

// parseFact reads a ground (predicate obj...) form.
func parseFact(node sexpr) (planning.Fact, error) {
	lit, err := parseSchemaLiteral(node)
	if err != nil {
		return planning.Fact{}, err
	}
	for _, arg := range lit.Args {
		if strings.HasPrefix(arg, "?") {
			return planning.Fact{}, node.errorf("fact argument %q is a variable, want an object", arg)
		}
	}
	return planning.Fact{Predicate: lit.Predicate, Args: lit.Args}, nil
}

// parseGoal reads a goal condition: a fact, a (not fact), or an (and ...)
// of those.
func parseGoal(node sexpr) ([]planning.Literal, error) {
	lits, err := parseLiteralConjunction(node)
	if err != nil {
		return nil, err
	}
	out := make([]planning.Literal, 0, len(lits))
	for _, lit := range lits {
		for _, arg := range lit.literal.Args {
			if strings.HasPrefix(arg, "?") {
				return nil, node.errorf("goal argument %q is a variable, want an object", arg)
			}
		}
		out = append(out, planning.Literal{
			Fact:    planning.Fact{Predicate: lit.literal.Predicate, Args: lit.literal.Args},
			Negated: lit.negated,
		})
	}
	return out, nil
}

func expectHead(node sexpr, head string) error {
	if !node.isList || len(node.list) == 0 || node.list[0].isList || node.list[0].atom != head {
		return node.errorf("expected (%s ...)", head)
	}
	return nil
}
