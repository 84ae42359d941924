package workflow

import "sync"

// Registry maps entity kinds to their workflow definitions. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	definitions map[Kind]*Definition
	kinds       []Kind
}

// NewRegistry builds a registry from definitions. A later definition for the
// same kind replaces an earlier one.
func NewRegistry(defs ...*Definition) *Registry {
	r := &Registry{definitions: make(map[Kind]*Definition, len(defs))}
	for _, d := range defs {
		if _, exists := r.definitions[d.Kind()]; !exists {
			r.kinds = append(r.kinds, d.Kind())
		}
		r.definitions[d.Kind()] = d
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the process-wide registry of the four built-in workflows
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(
			ProjectWorkflow(),
			TaskWorkflow(),
			DeliverableWorkflow(),
			InvoiceWorkflow(),
		)
	})
	return defaultRegistry
}

// Lookup returns the definition for kind
func (r *Registry) Lookup(kind Kind) (*Definition, bool) {
	d, ok := r.definitions[kind]
	return d, ok
}

// Kinds returns registered kinds in registration order
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.kinds...)
}

// IsTransitionValid reports whether from -> to is a declared edge of the
// workflow. Unknown workflows and statuses yield false.
func (r *Registry) IsTransitionValid(kind Kind, from, to Status) bool {
	d, ok := r.definitions[kind]
	if !ok {
		return false
	}
	return d.IsTransitionValid(from, to)
}

// HasPermission reports whether role may move an entity of kind into status.
// It does not check reachability; callers evaluate both.
func (r *Registry) HasPermission(kind Kind, status Status, role Role) bool {
	d, ok := r.definitions[kind]
	if !ok {
		return false
	}
	return d.HasPermission(status, role)
}

// GetNotificationConfig returns who to notify when an entity of kind enters
// status. The second value is false when nobody is notified.
func (r *Registry) GetNotificationConfig(kind Kind, status Status) (NotificationConfig, bool) {
	d, ok := r.definitions[kind]
	if !ok {
		return NotificationConfig{}, false
	}
	return d.NotificationConfig(status)
}
