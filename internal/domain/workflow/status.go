package workflow

// Status is the single lifecycle field carried by every workflow-governed entity.
// Status values are scoped to a workflow: "draft" means one thing for a project
// and another for an invoice.
type Status string

// Project statuses
const (
	StatusDraft      Status = "draft"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

// Task statuses (in addition to in_progress and completed)
const (
	StatusPending  Status = "pending"
	StatusAssigned Status = "assigned"
	StatusVerified Status = "verified"
)

// Deliverable statuses (in addition to pending and in_progress)
const (
	StatusSubmitted Status = "submitted"
	StatusRejected  Status = "rejected"
	StatusApproved  Status = "approved"
)

// Invoice statuses (in addition to draft)
const (
	StatusSent    Status = "sent"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Kind identifies which entity a workflow governs.
type Kind string

const (
	KindProject     Kind = "project"
	KindTask        Kind = "task"
	KindDeliverable Kind = "deliverable"
	KindInvoice     Kind = "invoice"
)

var validKinds = map[Kind]bool{
	KindProject:     true,
	KindTask:        true,
	KindDeliverable: true,
	KindInvoice:     true,
}

// IsValid returns true if the kind names one of the four governed entities
func (k Kind) IsValid() bool {
	return validKinds[k]
}

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}
