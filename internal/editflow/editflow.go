// Package editflow models the mutation flow for calendar occurrences as an
// explicit state machine. A mutation on a recurring occurrence must pass
// through a confirmation state where the caller picks a scope; standalone
// events resolve immediately.
package editflow

import "errors"

var (
	// ErrScopeRequired means the flow is parked in a confirmation state and
	// cannot resolve until the caller chooses a scope.
	ErrScopeRequired = errors.New("scope required for recurring occurrence")
	// ErrIllegalTransition means the event is not valid in the current state.
	ErrIllegalTransition = errors.New("illegal edit-flow transition")
)

// Mutation scopes.
const (
	ScopeSingle = "single"
	ScopeSeries = "series"
)

type kind int

const (
	kindResolved kind = iota
	kindConfirmEdit
	kindConfirmDelete
	kindCancelled
)

// State is one position in the edit flow. Zero value is not meaningful; build
// states through BeginEdit/BeginDelete.
type State struct {
	kind  kind
	scope string
}

// Event is a flow input. The concrete types form the closed set of inputs.
type Event interface{ isEvent() }

// ChooseScope picks the mutation scope from a confirmation state.
type ChooseScope struct{ Scope string }

// Cancel abandons the flow from a confirmation state.
type Cancel struct{}

func (ChooseScope) isEvent() {}
func (Cancel) isEvent()      {}

// BeginEdit starts an edit flow. Recurring occurrences park in the
// confirm-edit state; standalone events resolve straight to a single-scope
// mutation.
func BeginEdit(recurring bool) State {
	if recurring {
		return State{kind: kindConfirmEdit}
	}
	return State{kind: kindResolved, scope: ScopeSingle}
}

// BeginDelete starts a delete flow, mirroring BeginEdit.
func BeginDelete(recurring bool) State {
	if recurring {
		return State{kind: kindConfirmDelete}
	}
	return State{kind: kindResolved, scope: ScopeSingle}
}

// Transition applies an event to a state.
func Transition(s State, e Event) (State, error) {
	switch s.kind {
	case kindConfirmEdit, kindConfirmDelete:
		switch ev := e.(type) {
		case ChooseScope:
			if ev.Scope != ScopeSingle && ev.Scope != ScopeSeries {
				return s, ErrIllegalTransition
			}
			return State{kind: kindResolved, scope: ev.Scope}, nil
		case Cancel:
			return State{kind: kindCancelled}, nil
		}
		return s, ErrIllegalTransition
	default:
		// resolved and cancelled states are terminal
		return s, ErrIllegalTransition
	}
}

// Resolution is the outcome of a completed flow.
type Resolution struct {
	Apply bool   // false when the flow was cancelled
	Scope string // single | series, meaningful only when Apply
}

// Resolve reads the outcome. A flow still parked in a confirmation state
// yields ErrScopeRequired.
func Resolve(s State) (Resolution, error) {
	switch s.kind {
	case kindResolved:
		return Resolution{Apply: true, Scope: s.scope}, nil
	case kindCancelled:
		return Resolution{}, nil
	default:
		return Resolution{}, ErrScopeRequired
	}
}
