package workflow

import "fmt"

// Machine tracks the status of one entity and guards changes to it. It is not
// safe for concurrent use; callers own one machine per loaded entity.
type Machine struct {
	def     *Definition
	current Status
}

// NewMachine wraps an entity currently in status
func NewMachine(def *Definition, status Status) (*Machine, error) {
	if !def.HasStatus(status) {
		return nil, fmt.Errorf("%w: %s is not a %s status", ErrInvalidStatus, status, def.Kind())
	}
	return &Machine{def: def, current: status}, nil
}

// Status returns the current status
func (m *Machine) Status() Status {
	return m.current
}

// Definition returns the workflow definition the machine enforces
func (m *Machine) Definition() *Definition {
	return m.def
}

// Check validates moving to the target status as role without changing state.
// Reachability is checked before permission.
func (m *Machine) Check(to Status, role Role) error {
	if !m.def.HasStatus(to) {
		return fmt.Errorf("%w: %s is not a %s status", ErrInvalidStatus, to, m.def.Kind())
	}
	if !m.def.IsTransitionValid(m.current, to) {
		return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, m.def.Kind(), m.current, to)
	}
	if !m.def.HasPermission(to, role) {
		return fmt.Errorf("%w: role %s cannot move %s to %s", ErrPermissionDenied, role, m.def.Kind(), to)
	}
	return nil
}

// Transition moves to the target status if Check passes
func (m *Machine) Transition(to Status, role Role) error {
	if err := m.Check(to, role); err != nil {
		return err
	}
	m.current = to
	return nil
}

// Available returns the next statuses role could move the entity into
func (m *Machine) Available(role Role) []Status {
	var out []Status
	for _, to := range m.def.NextStatuses(m.current) {
		if m.def.HasPermission(to, role) {
			out = append(out, to)
		}
	}
	return out
}
