package entity

import "github.com/foundationpro/inspection-billing/internal/domain/workflow"

// UserRole is the application's authentication role. It is a separate
// vocabulary from workflow roles; WorkflowRole bridges the two.
type UserRole string

const (
	UserRoleAdmin           UserRole = "admin"
	UserRoleClientScheduler UserRole = "client_scheduler"
	UserRoleClientAP        UserRole = "client_ap"
	UserRoleFieldTech       UserRole = "field_tech"
)

var workflowRoles = map[UserRole]workflow.Role{
	UserRoleAdmin:           workflow.RoleAdmin,
	UserRoleClientScheduler: workflow.RoleScheduler,
	UserRoleClientAP:        workflow.RoleClientAP,
	UserRoleFieldTech:       workflow.RoleFieldTech,
}

// IsValid reports whether r is a known application role
func (r UserRole) IsValid() bool {
	_, ok := workflowRoles[r]
	return ok
}

// WorkflowRole maps an application role to the workflow role used in
// permission checks. Unknown roles map to nothing.
func (r UserRole) WorkflowRole() (workflow.Role, bool) {
	role, ok := workflowRoles[r]
	return role, ok
}

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
}

// SystemActor is used by background jobs
var SystemActor = Actor{UserID: "system", Role: UserRoleAdmin}
