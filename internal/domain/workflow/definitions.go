package workflow

// ProjectWorkflow governs a job from scheduling through close-out.
func ProjectWorkflow() *Definition {
	b := NewBuilder(KindProject,
		StatusDraft, StatusScheduled, StatusInProgress, StatusCompleted, StatusClosed)

	b.Configure(StatusDraft).
		Permit(StatusScheduled).
		AllowRoles(RoleAdmin)

	b.Configure(StatusScheduled).
		Permit(StatusDraft, StatusInProgress).
		AllowRoles(RoleAdmin, RoleScheduler).
		Notify("Project has been scheduled", RoleFieldTech)

	b.Configure(StatusInProgress).
		Permit(StatusScheduled, StatusCompleted).
		AllowRoles(RoleAdmin, RoleScheduler, RoleFieldTech)

	b.Configure(StatusCompleted).
		Permit(StatusInProgress, StatusClosed).
		AllowRoles(RoleAdmin, RoleFieldTech).
		Notify("Project work is complete", RoleAdmin, RoleClientAP)

	b.Configure(StatusClosed).
		AllowRoles(RoleAdmin).
		Notify("Project has been closed", RoleAdmin)

	return b.Build()
}

// TaskWorkflow governs a single field assignment.
func TaskWorkflow() *Definition {
	b := NewBuilder(KindTask,
		StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusVerified)

	b.Configure(StatusPending).
		Permit(StatusAssigned).
		AllowRoles(RoleAdmin, RoleScheduler)

	b.Configure(StatusAssigned).
		Permit(StatusPending, StatusInProgress).
		AllowRoles(RoleAdmin, RoleScheduler).
		Notify("A task has been assigned to you", RoleFieldTech)

	b.Configure(StatusInProgress).
		Permit(StatusAssigned, StatusCompleted).
		AllowRoles(RoleAdmin, RoleFieldTech)

	b.Configure(StatusCompleted).
		Permit(StatusInProgress, StatusVerified).
		AllowRoles(RoleAdmin, RoleFieldTech).
		Notify("Task completed and awaiting verification", RoleAdmin, RoleScheduler)

	b.Configure(StatusVerified).
		AllowRoles(RoleAdmin).
		Notify("Task has been verified", RoleScheduler)

	return b.Build()
}

// DeliverableWorkflow governs inspection reports and other client-facing
// documents. Rejected deliverables go back to in_progress for rework.
func DeliverableWorkflow() *Definition {
	b := NewBuilder(KindDeliverable,
		StatusPending, StatusInProgress, StatusSubmitted, StatusRejected, StatusApproved)

	b.Configure(StatusPending).
		Permit(StatusInProgress).
		AllowRoles(RoleAdmin)

	b.Configure(StatusInProgress).
		Permit(StatusSubmitted).
		AllowRoles(RoleAdmin, RoleFieldTech)

	b.Configure(StatusSubmitted).
		Permit(StatusApproved, StatusRejected).
		AllowRoles(RoleAdmin, RoleFieldTech).
		Notify("Deliverable submitted for review", RoleAdmin)

	b.Configure(StatusRejected).
		Permit(StatusInProgress).
		AllowRoles(RoleAdmin).
		Notify("Deliverable was rejected and needs rework", RoleFieldTech)

	b.Configure(StatusApproved).
		AllowRoles(RoleAdmin).
		Notify("Deliverable has been approved", RoleScheduler, RoleClientAP)

	return b.Build()
}

// InvoiceWorkflow governs billing. Sent invoices may be pulled back to draft.
func InvoiceWorkflow() *Definition {
	b := NewBuilder(KindInvoice,
		StatusDraft, StatusSent, StatusOverdue, StatusPaid)

	b.Configure(StatusDraft).
		Permit(StatusSent).
		AllowRoles(RoleAdmin)

	b.Configure(StatusSent).
		Permit(StatusDraft, StatusOverdue, StatusPaid).
		AllowRoles(RoleAdmin).
		Notify("Invoice has been sent", RoleClientAP)

	b.Configure(StatusOverdue).
		Permit(StatusPaid).
		AllowRoles(RoleAdmin).
		Notify("Invoice is overdue", RoleAdmin, RoleClientAP)

	b.Configure(StatusPaid).
		AllowRoles(RoleAdmin, RoleClientAP).
		Notify("Invoice has been paid", RoleAdmin)

	return b.Build()
}
