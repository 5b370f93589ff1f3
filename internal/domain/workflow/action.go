package workflow

import "fmt"

// Action is something a caller asks to do with a document
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
)

// Verb returns the past participle used in user-facing messages.
func (a Action) Verb() string {
	switch a {
	case ActionSubmit:
		return "submitted"
	case ActionApprove:
		return "approved"
	case ActionReject:
		return "rejected"
	case ActionEdit:
		return "edited"
	case ActionDelete:
		return "deleted"
	}
	return string(a)
}

// DecisionAction maps an approval target status to its action.
func DecisionAction(target string) (Action, error) {
	switch target {
	case "Approved":
		return ActionApprove, nil
	case "Rejected":
		return ActionReject, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDecision, target)
}

// SubmitOnCreate reports whether a document created with the requested status
// must be submitted straight away. Only Draft, Submitted or no status are accepted.
func SubmitOnCreate(status string) (bool, error) {
	switch status {
	case "", "Draft":
		return false, nil
	case "Submitted":
		return true, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidCreateStatus, status)
}
