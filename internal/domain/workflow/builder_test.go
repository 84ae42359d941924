package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(KindTask, StatusPending, StatusAssigned, StatusVerified)
	b.Configure(StatusPending).Permit(StatusAssigned).AllowRoles(RoleScheduler)
	b.Configure(StatusAssigned).
		Permit(StatusVerified, StatusVerified).
		AllowRoles(RoleScheduler, RoleAdmin, RoleScheduler).
		Notify("assigned", RoleFieldTech)

	d := b.Build()

	assert.Equal(t, KindTask, d.Kind())
	assert.Equal(t, StatusPending, d.InitialStatus())
	assert.Equal(t, []Status{StatusVerified}, d.NextStatuses(StatusAssigned))
	assert.Equal(t, []Role{RoleScheduler, RoleAdmin}, d.AllowedRoles(StatusAssigned))
	assert.True(t, d.IsTerminal(StatusVerified))
	assert.Empty(t, d.AllowedRoles(StatusVerified))

	cfg, ok := d.NotificationConfig(StatusAssigned)
	assert.True(t, ok)
	assert.Equal(t, "assigned", cfg.Message)
	assert.Equal(t, []Role{RoleFieldTech}, cfg.Roles)
}

func TestBuilder_BuildIsSnapshot(t *testing.T) {
	b := NewBuilder(KindInvoice, StatusDraft, StatusSent)
	b.Configure(StatusDraft).Permit(StatusSent)
	d := b.Build()

	b.Configure(StatusSent).Permit(StatusDraft)

	assert.False(t, d.IsTransitionValid(StatusSent, StatusDraft))
	assert.True(t, d.IsTerminal(StatusSent))
}

func TestBuilder_Panics(t *testing.T) {
	assert.Panics(t, func() { NewBuilder(KindProject) })
	assert.Panics(t, func() { NewBuilder(KindProject, StatusDraft, StatusDraft) })
	assert.Panics(t, func() {
		NewBuilder(KindProject, StatusDraft).Configure(StatusPaid)
	})
	assert.Panics(t, func() {
		NewBuilder(KindProject, StatusDraft, StatusClosed).Configure(StatusDraft).Permit(StatusPaid)
	})
	assert.Panics(t, func() {
		NewBuilder(KindProject, StatusDraft).Configure(StatusDraft).Permit(StatusDraft)
	})
	assert.Panics(t, func() {
		NewBuilder(KindProject, StatusDraft).Configure(StatusDraft).AllowRoles(Role("owner"))
	})
}

func TestDefinition_ReturnsCopies(t *testing.T) {
	d := InvoiceWorkflow()

	next := d.NextStatuses(StatusSent)
	next[0] = StatusPaid
	assert.Equal(t, StatusDraft, d.NextStatuses(StatusSent)[0])

	cfg, _ := d.NotificationConfig(StatusOverdue)
	cfg.Roles[0] = RoleFieldTech
	again, _ := d.NotificationConfig(StatusOverdue)
	assert.Equal(t, RoleAdmin, again.Roles[0])
}
