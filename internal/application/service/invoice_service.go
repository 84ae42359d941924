package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foundationpro/inspection-billing/internal/application/dispatcher"
	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/event"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// InvoiceConfig holds billing settings
type InvoiceConfig struct {
	TaxRate         decimal.Decimal
	Currency        string
	NumberPrefix    string
	PaymentTermDays int
}

// InvoiceExport is a rendered invoice file
type InvoiceExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// InvoiceService turns priced project services into invoices
type InvoiceService interface {
	// CreateFromProject prices the project's products and stores a draft invoice
	CreateFromProject(ctx context.Context, projectID int64) (*entity.Invoice, error)
	Get(ctx context.Context, id int64) (*entity.Invoice, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.Invoice, error)
	Export(ctx context.Context, id int64) (*InvoiceExport, error)

	// HandleStatusChanged stamps issue, due and paid dates as invoices move
	HandleStatusChanged(ctx context.Context, evt *event.Event) error

	// MarkOverdue moves sent invoices past their due date to overdue
	MarkOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

type invoiceServiceImpl struct {
	invoiceRepo   port.InvoiceRepository
	projectRepo   port.ProjectRepository
	pricing       PricingService
	statusService StatusService
	exporter      port.InvoiceExporter
	dispatcher    dispatcher.Dispatcher
	txManager     port.TransactionManager
	initial       workflow.Status
	cfg           InvoiceConfig
	logger        Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	projectRepo port.ProjectRepository,
	pricing PricingService,
	statusService StatusService,
	exporter port.InvoiceExporter,
	dispatcher dispatcher.Dispatcher,
	txManager port.TransactionManager,
	registry *workflow.Registry,
	cfg InvoiceConfig,
	logger Logger,
) InvoiceService {
	def, _ := registry.Lookup(workflow.KindInvoice)
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "INV"
	}
	if cfg.PaymentTermDays <= 0 {
		cfg.PaymentTermDays = 30
	}
	return &invoiceServiceImpl{
		invoiceRepo:   invoiceRepo,
		projectRepo:   projectRepo,
		pricing:       pricing,
		statusService: statusService,
		exporter:      exporter,
		dispatcher:    dispatcher,
		txManager:     txManager,
		initial:       def.InitialStatus(),
		cfg:           cfg,
		logger:        logger,
	}
}

func (s *invoiceServiceImpl) CreateFromProject(ctx context.Context, projectID int64) (*entity.Invoice, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}

	quote := s.pricing.Quote(project.ProductIDs, project.ProductionDays)
	if len(quote.Services) == 0 {
		return nil, fmt.Errorf("%w: project %d", ErrNoBillableServices, projectID)
	}

	now := time.Now()
	inv := &entity.Invoice{
		ProjectID: projectID,
		Number:    s.newNumber(now),
		Status:    s.initial,
		Currency:  s.cfg.Currency,
		TaxRate:   s.cfg.TaxRate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, svc := range quote.Services {
		inv.LineItems = append(inv.LineItems, entity.InvoiceLineItem{
			ServiceID:      svc.ServiceID,
			ServiceName:    svc.ServiceName,
			Category:       string(svc.Category),
			ProductIDs:     append([]string(nil), svc.Products...),
			BasePrice:      svc.BasePrice,
			ProductionDays: svc.ProductionDays,
			Amount:         svc.Price,
			Notes:          svc.Notes,
		})
	}
	computeTotals(inv)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.invoiceRepo.Create(txCtx, inv)
	})
	if err != nil {
		s.logger.Error("Failed to create invoice", "project_id", projectID, "error", err)
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.logger.Info("Invoice created",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"project_id", projectID,
		"line_items", len(inv.LineItems),
		"total", inv.Total.StringFixed(2),
	)
	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeInvoiceCreated, workflow.KindInvoice.String(), inv.ID,
		map[string]interface{}{"project_id": projectID, "number": inv.Number}))

	return inv, nil
}

func (s *invoiceServiceImpl) Get(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: invoice %d", ErrNotFound, id)
	}
	return inv, nil
}

func (s *invoiceServiceImpl) ListByProject(ctx context.Context, projectID int64) ([]*entity.Invoice, error) {
	if err := requireProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	list, err := s.invoiceRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return list, nil
}

func (s *invoiceServiceImpl) Export(ctx context.Context, id int64) (*InvoiceExport, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, inv.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, inv.ProjectID)
	}

	data, err := s.exporter.Export(ctx, inv, project)
	if err != nil {
		s.logger.Error("Failed to export invoice", "invoice_id", id, "error", err)
		return nil, fmt.Errorf("export invoice: %w", err)
	}

	return &InvoiceExport{
		Filename:    inv.Number + s.exporter.Extension(),
		ContentType: s.exporter.ContentType(),
		Data:        data,
	}, nil
}

func (s *invoiceServiceImpl) HandleStatusChanged(ctx context.Context, evt *event.Event) error {
	if workflow.Kind(evt.EntityKind) != workflow.KindInvoice {
		return nil
	}

	at := evt.Timestamp
	switch workflow.Status(evt.GetPayloadString(event.KeyToStatus)) {
	case workflow.StatusSent:
		due := at.AddDate(0, 0, s.cfg.PaymentTermDays)
		if err := s.invoiceRepo.SetIssued(ctx, evt.EntityID, at, due); err != nil {
			return fmt.Errorf("set invoice issued: %w", err)
		}
	case workflow.StatusPaid:
		if err := s.invoiceRepo.SetPaid(ctx, evt.EntityID, at); err != nil {
			return fmt.Errorf("set invoice paid: %w", err)
		}
	}
	return nil
}

func (s *invoiceServiceImpl) MarkOverdue(ctx context.Context, now time.Time, limit int) (int, error) {
	due, err := s.invoiceRepo.ListPastDue(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("list past due invoices: %w", err)
	}

	marked := 0
	for _, inv := range due {
		if ctx.Err() != nil {
			return marked, ctx.Err()
		}
		if _, err := s.statusService.ChangeStatus(ctx, workflow.KindInvoice, inv.ID, workflow.StatusOverdue, entity.SystemActor); err != nil {
			s.logger.Error("Failed to mark invoice overdue", "invoice_id", inv.ID, "error", err)
			continue
		}
		marked++
	}

	if marked > 0 {
		s.logger.Info("Invoices marked overdue", "count", marked)
	}
	return marked, nil
}

func (s *invoiceServiceImpl) newNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", s.cfg.NumberPrefix, now.Format("200601"), suffix)
}

// computeTotals sets subtotal, tax and total from line items. Tax is rounded
// to cents.
func computeTotals(inv *entity.Invoice) {
	subtotal := decimal.Zero
	for _, item := range inv.LineItems {
		subtotal = subtotal.Add(decimal.NewFromInt(item.Amount))
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = subtotal.Mul(inv.TaxRate).Round(2)
	inv.Total = subtotal.Add(inv.TaxAmount)
}
