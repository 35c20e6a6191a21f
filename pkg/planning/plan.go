// Plan extraction: reading a satisfying assignment back into an ordered
// action sequence. The extractor only reads; it never mutates the
// assignment or the store.
package planning

import (
	"fmt"
	"strings"
)

// Plan is a step-indexed sequence of ground actions, one per layer.
type Plan struct {
	Steps []*GroundAction
}

// Length returns the number of steps.
func (p *Plan) Length() int { return len(p.Steps) }

// String renders the plan one numbered step per line.
func (p *Plan) String() string {
	if len(p.Steps) == 0 {
		return "(empty plan)"
	}
	var b strings.Builder
	for i, a := range p.Steps {
		fmt.Fprintf(&b, "%d: %s\n", i, a.Signature())
	}
	return b.String()
}

// Simulate replays the plan from the initial state, applying each step's
// delete effects then add effects, and returns every intermediate state:
// states[0] is the initial state and states[len(Steps)] the final one.
// It returns an error if some step's preconditions do not hold — which,
// for a plan produced by Extract from a correct solve, indicates an
// internal bug rather than bad input.
func (p *Plan) Simulate(init State) ([]State, error) {
	states := make([]State, 0, len(p.Steps)+1)
	states = append(states, init)
	current := init
	for i, a := range p.Steps {
		if !a.Applicable(current) {
			return nil, fmt.Errorf("step %d: %s not applicable", i, a.Signature())
		}
		current = a.Apply(current)
		states = append(states, current)
	}
	return states, nil
}

// Extract reads the satisfying assignment and renders it as an ordered
// ground action sequence, one per layer 0..H-1, by finding which action
// variable is true at each layer. It fails with *MalformedAssignmentError
// if zero or more than one action is true at some layer.
func Extract(assignment Assignment, enc *Encoding) (*Plan, error) {
	steps := make([]*GroundAction, 0, enc.Horizon)
	for k := 0; k < enc.Horizon; k++ {
		count := 0
		var chosen *GroundAction
		for i, a := range enc.Actions {
			if assignment[enc.ActionVar(i, k)] {
				count++
				chosen = a
			}
		}
		if count != 1 {
			return nil, &MalformedAssignmentError{Layer: k, Count: count}
		}
		steps = append(steps, chosen)
	}
	return &Plan{Steps: steps}, nil
}
