package port

import (
	"context"
	"time"

	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// StatusRepository reads and writes the status column of one entity kind.
// GetStatus returns found=false when the entity does not exist. UpdateStatus
// only writes when the stored status still equals from and returns
// ErrStatusConflict otherwise.
type StatusRepository interface {
	GetStatus(ctx context.Context, id int64) (status workflow.Status, found bool, err error)
	UpdateStatus(ctx context.Context, id int64, from, to workflow.Status) error
}

// ProjectRepository defines persistence operations for Project
type ProjectRepository interface {
	StatusRepository
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id int64) (*entity.Project, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
	UpdateProducts(ctx context.Context, id int64, productIDs []string, productionDays int) error
}

// TaskRepository defines persistence operations for Task
type TaskRepository interface {
	StatusRepository
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id int64) (*entity.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.Task, error)
}

// DeliverableRepository defines persistence operations for Deliverable
type DeliverableRepository interface {
	StatusRepository
	Create(ctx context.Context, deliverable *entity.Deliverable) error
	GetByID(ctx context.Context, id int64) (*entity.Deliverable, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.Deliverable, error)
}

// InvoiceRepository defines persistence operations for Invoice and its line items
type InvoiceRepository interface {
	StatusRepository
	// Create inserts the invoice and its line items
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID returns the invoice with line items loaded
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.Invoice, error)
	SetIssued(ctx context.Context, id int64, issuedAt, dueAt time.Time) error
	SetPaid(ctx context.Context, id int64, paidAt time.Time) error
	// ListPastDue returns sent invoices whose due date is before now
	ListPastDue(ctx context.Context, now time.Time, limit int) ([]*entity.Invoice, error)
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByEntity(ctx context.Context, kind workflow.Kind, entityID int64) ([]*entity.Notification, error)
	// ListFailed returns failed notifications with fewer than maxAttempts attempts
	ListFailed(ctx context.Context, maxAttempts, limit int) ([]*entity.Notification, error)
	// RecordAttempt increments attempts and stores the delivery outcome
	RecordAttempt(ctx context.Context, id int64, status, errorMsg string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
