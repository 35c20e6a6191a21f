package planning

// Shared fixtures: a two-robot, two-location, two-container logistics
// domain. Each robot's goal container starts at the opposite location, so
// the shortest plan is four steps: two moves and two loads.

func robotsDomain() *Domain {
	return &Domain{
		Name: "dock-worker-robot",
		Types: []Type{
			{Name: "robot"},
			{Name: "container"},
			{Name: "location"},
		},
		Predicates: []PredicateSignature{
			{Name: "at", ParamTypes: []string{"robot", "location"}},
			{Name: "in", ParamTypes: []string{"container", "location"}},
			{Name: "loaded", ParamTypes: []string{"robot", "container"}},
			{Name: "unloaded", ParamTypes: []string{"robot"}},
		},
		Actions: []ActionSchema{
			{
				Name: "move",
				Params: []Parameter{
					{Name: "?r", Type: "robot"},
					{Name: "?from", Type: "location"},
					{Name: "?to", Type: "location"},
				},
				Pre: []SchemaLiteral{{Predicate: "at", Args: []string{"?r", "?from"}}},
				Add: []SchemaLiteral{{Predicate: "at", Args: []string{"?r", "?to"}}},
				Del: []SchemaLiteral{{Predicate: "at", Args: []string{"?r", "?from"}}},
			},
			{
				Name: "load",
				Params: []Parameter{
					{Name: "?r", Type: "robot"},
					{Name: "?c", Type: "container"},
					{Name: "?l", Type: "location"},
				},
				Pre: []SchemaLiteral{
					{Predicate: "at", Args: []string{"?r", "?l"}},
					{Predicate: "in", Args: []string{"?c", "?l"}},
					{Predicate: "unloaded", Args: []string{"?r"}},
				},
				Add: []SchemaLiteral{{Predicate: "loaded", Args: []string{"?r", "?c"}}},
				Del: []SchemaLiteral{
					{Predicate: "in", Args: []string{"?c", "?l"}},
					{Predicate: "unloaded", Args: []string{"?r"}},
				},
			},
		},
	}
}

func robotsProblem() *Problem {
	return &Problem{
		Name: "swap-containers",
		Objects: []Object{
			{Name: "robr", Type: "robot"},
			{Name: "robq", Type: "robot"},
			{Name: "conta", Type: "container"},
			{Name: "contb", Type: "container"},
			{Name: "loc1", Type: "location"},
			{Name: "loc2", Type: "location"},
		},
		Init: []Fact{
			NewFact("at", "robr", "loc1"),
			NewFact("at", "robq", "loc2"),
			NewFact("in", "conta", "loc1"),
			NewFact("in", "contb", "loc2"),
			NewFact("unloaded", "robr"),
			NewFact("unloaded", "robq"),
		},
		Goal: []Literal{
			{Fact: NewFact("loaded", "robr", "contb")},
			{Fact: NewFact("loaded", "robq", "conta")},
		},
	}
}

// singleRobotProblem is a one-move toy: robr starts at loc1 and must end
// at loc2. The shortest plan is one step.
func singleRobotProblem() *Problem {
	return &Problem{
		Name: "go-to-loc2",
		Objects: []Object{
			{Name: "robr", Type: "robot"},
			{Name: "loc1", Type: "location"},
			{Name: "loc2", Type: "location"},
		},
		Init: []Fact{
			NewFact("at", "robr", "loc1"),
		},
		Goal: []Literal{
			{Fact: NewFact("at", "robr", "loc2")},
		},
	}
}

func mustGround(d *Domain, p *Problem) []*GroundAction {
	actions, err := Ground(d, p)
	if err != nil {
		panic(err)
	}
	return actions
}
