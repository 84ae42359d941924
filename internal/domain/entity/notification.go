package entity

import (
	"time"

	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// Notification is one role-addressed message produced by a status change
type Notification struct {
	ID             int64           `json:"id"`
	EntityKind     workflow.Kind   `json:"entity_kind"`
	EntityID       int64           `json:"entity_id"`
	Status         workflow.Status `json:"status"`
	Role           workflow.Role   `json:"role"`
	Message        string          `json:"message"`
	DeliveryStatus string          `json:"delivery_status"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	Attempts       int             `json:"attempts"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
