package workflow

import (
	"fmt"
	"sort"

	"github.com/sangkips/fms-api/internal/domain/enum"
)

// Machine is a transition table for one document type. It holds no current
// state: callers pass the persisted status in, so one Machine is shared by
// every document of that type.
type Machine[S ~string] struct {
	document    string
	initial     S
	transitions map[S]map[Action]S
	roles       map[Action]enum.Role
	editable    map[S]struct{}
	deletable   map[S]struct{}
}

// Builder configures a Machine
type Builder[S ~string] struct {
	m *Machine[S]
}

// StateConfiguration configures the transitions leaving one state
type StateConfiguration[S ~string] struct {
	builder *Builder[S]
	from    S
}

// NewBuilder starts a machine for document with the given initial status
func NewBuilder[S ~string](document string, initial S) *Builder[S] {
	return &Builder[S]{m: &Machine[S]{
		document:    document,
		initial:     initial,
		transitions: make(map[S]map[Action]S),
		roles:       make(map[Action]enum.Role),
		editable:    make(map[S]struct{}),
		deletable:   make(map[S]struct{}),
	}}
}

// Configure returns the configuration for transitions leaving state
func (b *Builder[S]) Configure(state S) *StateConfiguration[S] {
	if _, ok := b.m.transitions[state]; !ok {
		b.m.transitions[state] = make(map[Action]S)
	}
	return &StateConfiguration[S]{builder: b, from: state}
}

// Require sets the role every firing of action needs
func (b *Builder[S]) Require(action Action, role enum.Role) *Builder[S] {
	b.m.roles[action] = role
	return b
}

// Editable lists the states in which the document may be edited
func (b *Builder[S]) Editable(states ...S) *Builder[S] {
	for _, s := range states {
		b.m.editable[s] = struct{}{}
	}
	return b
}

// Deletable lists the states in which the document may be deleted
func (b *Builder[S]) Deletable(states ...S) *Builder[S] {
	for _, s := range states {
		b.m.deletable[s] = struct{}{}
	}
	return b
}

// Build returns the configured machine. The builder must not be reused.
func (b *Builder[S]) Build() *Machine[S] {
	return b.m
}

// Permit allows action to move the document from the configured state to to
func (c *StateConfiguration[S]) Permit(action Action, to S) *StateConfiguration[S] {
	if existing, ok := c.builder.m.transitions[c.from][action]; ok && existing != to {
		panic(fmt.Sprintf("workflow: %s already permits %s from %s to %s", c.builder.m.document, action, c.from, existing))
	}
	c.builder.m.transitions[c.from][action] = to
	return c
}

// Configure switches to another state, allowing chained configuration
func (c *StateConfiguration[S]) Configure(state S) *StateConfiguration[S] {
	return c.builder.Configure(state)
}

// Builder returns to the machine-level builder
func (c *StateConfiguration[S]) Builder() *Builder[S] {
	return c.builder
}

// Initial returns the status new documents start in
func (m *Machine[S]) Initial() S {
	return m.initial
}

// Authorize checks role against the role action requires
func (m *Machine[S]) Authorize(action Action, role enum.Role) error {
	required, ok := m.roles[action]
	if !ok || required == role {
		return nil
	}
	return &RoleError{Action: action, Required: required.String(), Actual: role.String()}
}

// CanFire reports whether action is defined from current
func (m *Machine[S]) CanFire(current S, action Action) bool {
	_, ok := m.transitions[current][action]
	return ok
}

// Fire validates role and status and returns the status action leads to.
// It never mutates anything.
func (m *Machine[S]) Fire(current S, action Action, role enum.Role) (S, error) {
	if err := m.Authorize(action, role); err != nil {
		return current, err
	}
	to, ok := m.transitions[current][action]
	if !ok {
		return current, m.transitionError(current, action)
	}
	return to, nil
}

// PermittedActions lists the actions defined from current, sorted
func (m *Machine[S]) PermittedActions(current S) []Action {
	actions := make([]Action, 0, len(m.transitions[current]))
	for a := range m.transitions[current] {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// IsTerminal reports whether no action leaves current
func (m *Machine[S]) IsTerminal(current S) bool {
	return len(m.transitions[current]) == 0
}

// CheckEdit returns a TransitionError unless current allows editing
func (m *Machine[S]) CheckEdit(current S) error {
	if _, ok := m.editable[current]; ok {
		return nil
	}
	return m.transitionError(current, ActionEdit)
}

// CheckDelete returns a TransitionError unless current allows deletion
func (m *Machine[S]) CheckDelete(current S) error {
	if _, ok := m.deletable[current]; ok {
		return nil
	}
	return m.transitionError(current, ActionDelete)
}

func (m *Machine[S]) transitionError(current S, action Action) error {
	return &TransitionError{Document: m.document, Action: action, Current: string(current)}
}
