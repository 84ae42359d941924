package workflow

// Role is a workflow role. It is the vocabulary used by permission and
// notification tables and is intentionally separate from the application's
// authentication roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleScheduler Role = "scheduler"
	RoleFieldTech Role = "field_tech"
	RoleClientAP  Role = "client_ap"
)

var validRoles = map[Role]bool{
	RoleAdmin:     true,
	RoleScheduler: true,
	RoleFieldTech: true,
	RoleClientAP:  true,
}

// AllRoles returns the workflow roles in a stable order
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleScheduler, RoleFieldTech, RoleClientAP}
}

// IsValid returns true if the role is a known workflow role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
