// Error taxonomy for the planning core.
//
// Input errors (UnknownSymbolError, TypeMismatchError, InvalidHorizonError)
// are detected before any search work begins and name the offending symbol
// precisely; the caller must fix the input. Unsatisfiability is NOT an
// error: it is reported as a nil Plan in a Result. Internal invariant
// violations (MalformedAssignmentError) indicate a bug in the encoder or
// solver and are fatal.
package planning

import (
	"errors"
	"fmt"
)

// ErrConflict is returned by ConstraintStore.Assign and
// ConstraintStore.Propagate when a variable's domain becomes empty. During
// search it is recovered locally by backtracking and never surfaces to the
// caller of Solve.
var ErrConflict = errors.New("constraint conflict")

// UnknownSymbolError reports a reference to an object, type, predicate or
// action name that the domain does not declare.
type UnknownSymbolError struct {
	Kind    string // "object", "type", "predicate" or "action"
	Name    string
	Context string // where the reference appeared, e.g. an action schema name
}

func (e *UnknownSymbolError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("unknown %s %q in %s", e.Kind, e.Name, e.Context)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// TypeMismatchError reports an object or parameter used where its type is
// not accepted by the declared signature.
type TypeMismatchError struct {
	Context  string // action schema or fact the mismatch occurred in
	Argument string // the offending object or parameter name
	Got      string
	Want     string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s: %s has type %q, want %q",
		e.Context, e.Argument, e.Got, e.Want)
}

// InvalidHorizonError reports a negative plan length passed to Encode.
type InvalidHorizonError struct {
	Horizon int
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("invalid horizon %d: must be non-negative", e.Horizon)
}

// MalformedAssignmentError reports a satisfying assignment in which some
// action layer has zero or more than one executing action. It should never
// trigger given a correct encoder and solver; when it does, the run aborts
// rather than producing a wrong plan.
type MalformedAssignmentError struct {
	Layer int
	Count int
}

func (e *MalformedAssignmentError) Error() string {
	return fmt.Sprintf("malformed assignment: %d actions true at layer %d, want exactly 1",
		e.Count, e.Layer)
}
