package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

func TestUserRole_WorkflowRole(t *testing.T) {
	tests := []struct {
		role   UserRole
		want   workflow.Role
		wantOK bool
	}{
		{UserRoleAdmin, workflow.RoleAdmin, true},
		{UserRoleClientScheduler, workflow.RoleScheduler, true},
		{UserRoleClientAP, workflow.RoleClientAP, true},
		{UserRoleFieldTech, workflow.RoleFieldTech, true},
		{UserRole("scheduler"), "", false},
		{UserRole(""), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got, ok := tt.role.WorkflowRole()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, tt.role.IsValid())
		})
	}
}

func TestInvoice_IsPastDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&Invoice{Status: workflow.StatusSent, DueAt: &past}).IsPastDue(now))
	assert.False(t, (&Invoice{Status: workflow.StatusSent, DueAt: &future}).IsPastDue(now))
	assert.False(t, (&Invoice{Status: workflow.StatusSent}).IsPastDue(now))
	assert.False(t, (&Invoice{Status: workflow.StatusDraft, DueAt: &past}).IsPastDue(now))
}
