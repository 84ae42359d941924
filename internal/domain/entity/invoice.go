package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// Invoice bills a project's inspection services
type Invoice struct {
	ID        int64             `json:"id"`
	ProjectID int64             `json:"project_id"`
	Number    string            `json:"number"`
	Status    workflow.Status   `json:"status"`
	Currency  string            `json:"currency"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	TaxAmount decimal.Decimal   `json:"tax_amount"`
	Total     decimal.Decimal   `json:"total"`
	IssuedAt  *time.Time        `json:"issued_at,omitempty"`
	DueAt     *time.Time        `json:"due_at,omitempty"`
	PaidAt    *time.Time        `json:"paid_at,omitempty"`
	LineItems []InvoiceLineItem `json:"line_items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// InvoiceLineItem is one priced inspection service.
// Prices are whole currency units.
type InvoiceLineItem struct {
	ID             int64    `json:"id"`
	InvoiceID      int64    `json:"invoice_id"`
	ServiceID      string   `json:"service_id"`
	ServiceName    string   `json:"service_name"`
	Category       string   `json:"category"`
	ProductIDs     []string `json:"product_ids"`
	BasePrice      int64    `json:"base_price"`
	ProductionDays int      `json:"production_days"`
	Amount         int64    `json:"amount"`
	Notes          string   `json:"notes,omitempty"`
}

// IsPastDue reports whether a sent invoice's due date is before now
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.Status == workflow.StatusSent && i.DueAt != nil && i.DueAt.Before(now)
}
