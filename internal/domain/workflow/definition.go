package workflow

// NotificationConfig says who is told when an entity enters a status.
type NotificationConfig struct {
	Roles   []Role `json:"roles"`
	Message string `json:"message"`
}

// Definition is an immutable rule table for one entity kind. Lookups for
// statuses the definition does not declare fail closed.
type Definition struct {
	kind          Kind
	statuses      []Status
	declared      map[Status]bool
	transitions   map[Status]map[Status]bool
	targets       map[Status][]Status
	permissions   map[Status]map[Role]bool
	allowed       map[Status][]Role
	notifications map[Status]NotificationConfig
}

// Kind returns the entity kind governed by this definition
func (d *Definition) Kind() Kind {
	return d.kind
}

// Statuses returns the declared statuses in declaration order
func (d *Definition) Statuses() []Status {
	return append([]Status(nil), d.statuses...)
}

// InitialStatus is the status new entities are created in
func (d *Definition) InitialStatus() Status {
	return d.statuses[0]
}

// HasStatus reports whether the status is declared by this workflow
func (d *Definition) HasStatus(status Status) bool {
	return d.declared[status]
}

// IsTransitionValid reports whether to is a declared next status of from.
func (d *Definition) IsTransitionValid(from, to Status) bool {
	return d.transitions[from][to]
}

// HasPermission reports whether role may move an entity into status.
func (d *Definition) HasPermission(status Status, role Role) bool {
	return d.permissions[status][role]
}

// NotificationConfig returns the notification for entering status, if any.
func (d *Definition) NotificationConfig(status Status) (NotificationConfig, bool) {
	cfg, ok := d.notifications[status]
	if !ok {
		return NotificationConfig{}, false
	}
	cfg.Roles = append([]Role(nil), cfg.Roles...)
	return cfg, true
}

// NextStatuses returns the statuses reachable from status in declaration order
func (d *Definition) NextStatuses(status Status) []Status {
	return append([]Status(nil), d.targets[status]...)
}

// AllowedRoles returns the roles permitted to move an entity into status
func (d *Definition) AllowedRoles(status Status) []Role {
	return append([]Role(nil), d.allowed[status]...)
}

// IsTerminal returns true for declared statuses with no outgoing transitions
func (d *Definition) IsTerminal(status Status) bool {
	return d.declared[status] && len(d.targets[status]) == 0
}
