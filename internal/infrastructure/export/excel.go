package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/catalog"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
)

const (
	sheetName = "Invoice"
	// itemHeaderRow is the row holding line item column headings
	itemHeaderRow = 9
	dateLayout    = "2006-01-02"
)

var itemHeaders = []string{"Service", "Category", "Products", "Base Price", "Production Days", "Amount", "Notes"}

// ExcelExporter implements port.InvoiceExporter as an .xlsx workbook
type ExcelExporter struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewExcelExporter creates an exporter that names products from cat
func NewExcelExporter(cat *catalog.Catalog, logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{
		catalog: cat,
		logger:  logger,
	}
}

// ContentType returns the MIME type of the exported file
func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns the exported file extension
func (e *ExcelExporter) Extension() string {
	return ".xlsx"
}

// Export renders the invoice with its header, line items and totals
func (e *ExcelExporter) Export(ctx context.Context, invoice *entity.Invoice, project *entity.Project) ([]byte, error) {
	if invoice == nil || project == nil {
		return nil, fmt.Errorf("invoice and project are required")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	w := &sheetWriter{f: f}

	w.row(1, "Invoice", invoice.Number)
	w.row(2, "Project", project.Name)
	w.row(3, "Client", project.ClientName)
	w.row(4, "Address", project.Address)
	w.row(5, "Status", string(invoice.Status))
	w.row(6, "Issued", formatDate(invoice.IssuedAt))
	w.row(7, "Due", formatDate(invoice.DueAt))

	headers := make([]interface{}, len(itemHeaders))
	for i, h := range itemHeaders {
		headers[i] = h
	}
	w.row(itemHeaderRow, headers...)

	r := itemHeaderRow + 1
	for _, item := range invoice.LineItems {
		w.row(r,
			item.ServiceName,
			item.Category,
			e.productNames(item.ProductIDs),
			item.BasePrice,
			item.ProductionDays,
			item.Amount,
			item.Notes,
		)
		r++
	}

	r++
	amountCol := len(itemHeaders) - 1
	w.cell(amountCol-1, r, "Subtotal")
	w.cell(amountCol, r, invoice.Subtotal.StringFixed(2))
	w.cell(amountCol-1, r+1, fmt.Sprintf("Tax (%s%%)", invoice.TaxRate.Shift(2).String()))
	w.cell(amountCol, r+1, invoice.TaxAmount.StringFixed(2))
	w.cell(amountCol-1, r+2, "Total "+invoice.Currency)
	w.cell(amountCol, r+2, invoice.Total.StringFixed(2))

	if err := w.styleHeader(itemHeaderRow, len(itemHeaders)); err != nil {
		return nil, err
	}
	if w.err != nil {
		return nil, fmt.Errorf("failed to write invoice sheet: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Invoice exported",
		zap.Int64("invoice_id", invoice.ID),
		zap.Int("line_items", len(invoice.LineItems)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (e *ExcelExporter) productNames(ids []string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = e.catalog.ProductName(id)
	}
	return strings.Join(names, ", ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// sheetWriter keeps the first write error so cell writes can be chained
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) cell(col, row int, value interface{}) {
	if w.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(sheetName, name, value)
}

func (w *sheetWriter) row(row int, values ...interface{}) {
	for col, v := range values {
		w.cell(col, row, v)
	}
}

func (w *sheetWriter) styleHeader(row, cols int) error {
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	if err := w.f.SetCellStyle(sheetName, first, last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.InvoiceExporter = (*ExcelExporter)(nil)
