package workflow

import (
	"fmt"
)

// Builder declares a workflow's rule table one status at a time.
type Builder interface {
	// Configure returns the configuration for a declared status
	Configure(status Status) StatusConfiguration

	// Build freezes the configuration into an immutable Definition
	Build() *Definition
}

// StatusConfiguration configures the rules attached to a single status
type StatusConfiguration interface {
	// Permit declares transitions from this status to each target
	Permit(targets ...Status) StatusConfiguration

	// AllowRoles declares which roles may move an entity into this status
	AllowRoles(roles ...Role) StatusConfiguration

	// Notify declares the roles told when an entity enters this status
	Notify(message string, roles ...Role) StatusConfiguration
}

type statusConfig struct {
	builder *builder
	status  Status
	targets []Status
	roles   []Role
	notify  *NotificationConfig
}

type builder struct {
	kind     Kind
	statuses []Status
	declared map[Status]bool
	configs  map[Status]*statusConfig
}

// NewBuilder creates a builder for kind. The first status is the initial one.
// Misconfiguration panics: definitions are static tables built at startup.
func NewBuilder(kind Kind, statuses ...Status) Builder {
	if len(statuses) == 0 {
		panic(fmt.Sprintf("workflow %s: no statuses declared", kind))
	}

	b := &builder{
		kind:     kind,
		declared: make(map[Status]bool, len(statuses)),
		configs:  make(map[Status]*statusConfig, len(statuses)),
	}
	for _, s := range statuses {
		if b.declared[s] {
			panic(fmt.Sprintf("workflow %s: duplicate status %s", kind, s))
		}
		b.declared[s] = true
		b.statuses = append(b.statuses, s)
	}
	return b
}

// Configure returns the configuration for a declared status
func (b *builder) Configure(status Status) StatusConfiguration {
	if !b.declared[status] {
		panic(fmt.Sprintf("workflow %s: invalid status %s", b.kind, status))
	}

	cfg, exists := b.configs[status]
	if !exists {
		cfg = &statusConfig{builder: b, status: status}
		b.configs[status] = cfg
	}
	return cfg
}

// Build freezes the configuration. Every declared status gets a transitions
// entry; statuses that were never given targets are terminal.
func (b *builder) Build() *Definition {
	d := &Definition{
		kind:          b.kind,
		statuses:      append([]Status(nil), b.statuses...),
		declared:      make(map[Status]bool, len(b.statuses)),
		transitions:   make(map[Status]map[Status]bool, len(b.statuses)),
		targets:       make(map[Status][]Status, len(b.statuses)),
		permissions:   make(map[Status]map[Role]bool, len(b.statuses)),
		allowed:       make(map[Status][]Role, len(b.statuses)),
		notifications: make(map[Status]NotificationConfig),
	}

	for _, s := range b.statuses {
		d.declared[s] = true
		d.transitions[s] = make(map[Status]bool)
		d.permissions[s] = make(map[Role]bool)

		cfg, ok := b.configs[s]
		if !ok {
			continue
		}
		for _, to := range cfg.targets {
			if !d.transitions[s][to] {
				d.transitions[s][to] = true
				d.targets[s] = append(d.targets[s], to)
			}
		}
		for _, r := range cfg.roles {
			if !d.permissions[s][r] {
				d.permissions[s][r] = true
				d.allowed[s] = append(d.allowed[s], r)
			}
		}
		if cfg.notify != nil {
			d.notifications[s] = NotificationConfig{
				Roles:   append([]Role(nil), cfg.notify.Roles...),
				Message: cfg.notify.Message,
			}
		}
	}

	return d
}

// Permit declares transitions from this status to each target
func (c *statusConfig) Permit(targets ...Status) StatusConfiguration {
	for _, to := range targets {
		if !c.builder.declared[to] {
			panic(fmt.Sprintf("workflow %s: invalid target status %s", c.builder.kind, to))
		}
		if to == c.status {
			panic(fmt.Sprintf("workflow %s: self transition on %s", c.builder.kind, to))
		}
		c.targets = append(c.targets, to)
	}
	return c
}

// AllowRoles declares which roles may move an entity into this status
func (c *statusConfig) AllowRoles(roles ...Role) StatusConfiguration {
	for _, r := range roles {
		if !r.IsValid() {
			panic(fmt.Sprintf("workflow %s: invalid role %s", c.builder.kind, r))
		}
		c.roles = append(c.roles, r)
	}
	return c
}

// Notify declares the roles told when an entity enters this status
func (c *statusConfig) Notify(message string, roles ...Role) StatusConfiguration {
	for _, r := range roles {
		if !r.IsValid() {
			panic(fmt.Sprintf("workflow %s: invalid notification role %s", c.builder.kind, r))
		}
	}
	c.notify = &NotificationConfig{
		Roles:   append([]Role(nil), roles...),
		Message: message,
	}
	return c
}
