package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the current status does not allow an action
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrRoleNotPermitted is returned when the caller's role may not perform an action
	ErrRoleNotPermitted = errors.New("role not permitted")

	// ErrInvalidDecision is returned when an approval target is neither Approved nor Rejected
	ErrInvalidDecision = errors.New("invalid approval decision")

	// ErrInvalidCreateStatus is returned when a document is created with a status other than Draft or Submitted
	ErrInvalidCreateStatus = errors.New("invalid creation status")
)

// TransitionError carries the document and status that blocked an action.
type TransitionError struct {
	Document string
	Action   Action
	Current  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: cannot %s %s in status %s", ErrInvalidTransition, e.Action, e.Document, e.Current)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// RoleError carries the role an action requires.
type RoleError struct {
	Action   Action
	Required string
	Actual   string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("%v: %s requires role %s, got %s", ErrRoleNotPermitted, e.Action, e.Required, e.Actual)
}

func (e *RoleError) Unwrap() error {
	return ErrRoleNotPermitted
}
