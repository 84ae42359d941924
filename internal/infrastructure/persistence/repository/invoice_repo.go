package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/persistence/sqlite"
)

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	statusColumn
	db     *sql.DB
	tx     *sqlite.TxManager
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		statusColumn: statusColumn{db: db, table: "invoices"},
		db:           db,
		tx:           sqlite.NewTxManager(db, logger),
		logger:       logger,
	}
}

const invoiceColumns = `
	id, project_id, number, status, currency, subtotal, tax_rate, tax_amount, total,
	issued_at, due_at, paid_at, created_at, updated_at
`

// Create inserts the invoice and its line items in one transaction
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO invoices (
				project_id, number, status, currency, subtotal, tax_rate, tax_amount, total
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`

		result, err := r.getExecutor(ctx).ExecContext(ctx, query,
			invoice.ProjectID,
			invoice.Number,
			invoice.Status,
			invoice.Currency,
			invoice.Subtotal,
			invoice.TaxRate,
			invoice.TaxAmount,
			invoice.Total,
		)
		if err != nil {
			r.logger.Error("Failed to create invoice",
				zap.Int64("project_id", invoice.ProjectID),
				zap.String("number", invoice.Number),
				zap.Error(err))
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		invoice.ID = id

		for i := range invoice.LineItems {
			item := &invoice.LineItems[i]
			item.InvoiceID = id
			if err := r.insertLineItem(ctx, i, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *InvoiceRepository) insertLineItem(ctx context.Context, position int, item *entity.InvoiceLineItem) error {
	productIDs, err := encodeIDs(item.ProductIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoice_line_items (
			invoice_id, position, service_id, service_name, category, product_ids,
			base_price, production_days, amount, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		item.InvoiceID,
		position,
		item.ServiceID,
		item.ServiceName,
		item.Category,
		productIDs,
		item.BasePrice,
		item.ProductionDays,
		item.Amount,
		item.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice line item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

// GetByID returns the invoice with line items loaded
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	invoice, err := scanInvoice(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	items, err := r.lineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.LineItems = items
	return invoice, nil
}

func (r *InvoiceRepository) lineItems(ctx context.Context, invoiceID int64) ([]entity.InvoiceLineItem, error) {
	query := `
		SELECT id, invoice_id, service_id, service_name, category, product_ids,
			base_price, production_days, amount, notes
		FROM invoice_line_items
		WHERE invoice_id = ?
		ORDER BY position ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice line items: %w", err)
	}
	defer rows.Close()

	items := []entity.InvoiceLineItem{}
	for rows.Next() {
		var item entity.InvoiceLineItem
		var productIDs string
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.ServiceID,
			&item.ServiceName,
			&item.Category,
			&productIDs,
			&item.BasePrice,
			&item.ProductionDays,
			&item.Amount,
			&item.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line item: %w", err)
		}
		if item.ProductIDs, err = decodeIDs(productIDs); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListByProject returns a project's invoices without line items
func (r *InvoiceRepository) ListByProject(ctx context.Context, projectID int64) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE project_id = ? ORDER BY id ASC`
	return r.queryInvoices(ctx, query, projectID)
}

// ListPastDue returns sent invoices whose due date is before now
func (r *InvoiceRepository) ListPastDue(ctx context.Context, now time.Time, limit int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status = ? AND due_at IS NOT NULL AND due_at < ?
		ORDER BY due_at ASC
		LIMIT ?
	`
	return r.queryInvoices(ctx, query, workflow.StatusSent, now.UTC(), limit)
}

func (r *InvoiceRepository) queryInvoices(ctx context.Context, query string, args ...interface{}) ([]*entity.Invoice, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	return invoices, rows.Err()
}

// SetIssued stamps the issue and due dates
func (r *InvoiceRepository) SetIssued(ctx context.Context, id int64, issuedAt, dueAt time.Time) error {
	query := `
		UPDATE invoices SET issued_at = ?, due_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	return r.exec(ctx, "set invoice issued", query, issuedAt.UTC(), dueAt.UTC(), id)
}

// SetPaid stamps the payment date
func (r *InvoiceRepository) SetPaid(ctx context.Context, id int64, paidAt time.Time) error {
	query := `UPDATE invoices SET paid_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	return r.exec(ctx, "set invoice paid", query, paidAt.UTC(), id)
}

func (r *InvoiceRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+op, zap.Error(err))
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("invoice not found")
	}
	return nil
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var invoice entity.Invoice
	var issuedAt, dueAt, paidAt sql.NullTime

	err := row.Scan(
		&invoice.ID,
		&invoice.ProjectID,
		&invoice.Number,
		&invoice.Status,
		&invoice.Currency,
		&invoice.Subtotal,
		&invoice.TaxRate,
		&invoice.TaxAmount,
		&invoice.Total,
		&issuedAt,
		&dueAt,
		&paidAt,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if issuedAt.Valid {
		invoice.IssuedAt = &issuedAt.Time
	}
	if dueAt.Valid {
		invoice.DueAt = &dueAt.Time
	}
	if paidAt.Valid {
		invoice.PaidAt = &paidAt.Time
	}
	return &invoice, nil
}

// getExecutor returns appropriate executor based on context
func (r *InvoiceRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
