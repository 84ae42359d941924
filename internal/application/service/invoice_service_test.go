package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundationpro/inspection-billing/internal/application/dispatcher"
	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/event"
	"github.com/foundationpro/inspection-billing/internal/domain/pricing"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

type invoiceFixture struct {
	svc        InvoiceService
	status     StatusService
	invoices   *mockInvoiceRepo
	projects   *mockProjectRepo
	dispatcher dispatcher.Dispatcher
	exporter   *mockExporter
}

func newInvoiceFixture(projects ...*entity.Project) *invoiceFixture {
	f := &invoiceFixture{
		invoices:   newMockInvoiceRepo(),
		projects:   newMockProjectRepo(projects...),
		dispatcher: dispatcher.NewDispatcher(),
		exporter:   &mockExporter{},
	}
	registry := workflow.DefaultRegistry()
	f.status = NewStatusService(registry, map[workflow.Kind]port.StatusRepository{
		workflow.KindInvoice: f.invoices,
		workflow.KindProject: f.projects,
	}, f.dispatcher, &mockTxManager{}, &mockLogger{})

	f.svc = NewInvoiceService(f.invoices, f.projects, NewPricingService(pricing.Default()), f.status,
		f.exporter, f.dispatcher, &mockTxManager{}, registry,
		InvoiceConfig{TaxRate: decimal.RequireFromString("0.0825"), NumberPrefix: "FP", PaymentTermDays: 15},
		&mockLogger{})
	f.dispatcher.Subscribe(event.TypeStatusChanged, "invoice-dates", f.svc.HandleStatusChanged)
	return f
}

func TestInvoiceService_CreateFromProject(t *testing.T) {
	f := newInvoiceFixture(&entity.Project{
		ID:             1,
		Status:         workflow.StatusCompleted,
		ProductIDs:     []string{"crawlseal_liner", "crawlspace_dehumidifier", "extremebloc_insulation", "helical_piers", "wall_pins"},
		ProductionDays: 3,
	})

	inv, err := f.svc.CreateFromProject(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusDraft, inv.Status)
	assert.Equal(t, "USD", inv.Currency)
	assert.True(t, strings.HasPrefix(inv.Number, "FP-"), inv.Number)
	require.Len(t, inv.LineItems, 3)

	assert.Equal(t, "encapsulation", inv.LineItems[0].ServiceID)
	assert.Equal(t, int64(300), inv.LineItems[0].Amount)

	assert.Equal(t, "pier_inspection", inv.LineItems[1].ServiceID)
	assert.Equal(t, "CSI", inv.LineItems[1].Category)
	assert.Equal(t, 3, inv.LineItems[1].ProductionDays)
	assert.Equal(t, int64(2200), inv.LineItems[1].Amount)

	assert.Equal(t, "PSI", inv.LineItems[2].Category)
	assert.Equal(t, 0, inv.LineItems[2].ProductionDays)
	assert.Equal(t, int64(400), inv.LineItems[2].Amount)

	assert.Equal(t, "2900.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "239.25", inv.TaxAmount.StringFixed(2))
	assert.Equal(t, "3139.25", inv.Total.StringFixed(2))
}

func TestInvoiceService_CreateFromProjectErrors(t *testing.T) {
	f := newInvoiceFixture(&entity.Project{ID: 1, ProductIDs: nil})

	_, err := f.svc.CreateFromProject(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoBillableServices)

	_, err = f.svc.CreateFromProject(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)

	f = newInvoiceFixture(&entity.Project{ID: 1, ProductIDs: []string{"sump_pump"}})
	f.invoices.createErr = errors.New("locked")
	_, err = f.svc.CreateFromProject(context.Background(), 1)
	assert.Error(t, err)
}

func TestInvoiceService_StatusDates(t *testing.T) {
	f := newInvoiceFixture(&entity.Project{ID: 1, ProductIDs: []string{"sump_pump"}})
	inv, err := f.svc.CreateFromProject(context.Background(), 1)
	require.NoError(t, err)

	_, err = f.status.ChangeStatus(context.Background(), workflow.KindInvoice, inv.ID, workflow.StatusSent, admin)
	require.NoError(t, err)

	dates, ok := f.invoices.issued[inv.ID]
	require.True(t, ok)
	assert.Equal(t, dates[0].AddDate(0, 0, 15), dates[1])

	_, err = f.status.ChangeStatus(context.Background(), workflow.KindInvoice, inv.ID, workflow.StatusPaid, clientAP)
	require.NoError(t, err)
	_, ok = f.invoices.paid[inv.ID]
	assert.True(t, ok)
}

func TestInvoiceService_HandleStatusChangedIgnoresOtherKinds(t *testing.T) {
	f := newInvoiceFixture()
	evt := event.NewEvent(event.TypeStatusChanged, "project", 1, map[string]interface{}{event.KeyToStatus: "sent"})

	require.NoError(t, f.svc.HandleStatusChanged(context.Background(), evt))
	assert.Empty(t, f.invoices.issued)
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	f := newInvoiceFixture()
	f.invoices.statuses[1] = workflow.StatusSent
	f.invoices.statuses[2] = workflow.StatusPaid
	f.invoices.pastDue = []*entity.Invoice{{ID: 1}, {ID: 2}}

	marked, err := f.svc.MarkOverdue(context.Background(), time.Now(), 10)
	require.NoError(t, err)

	// paid invoices cannot become overdue
	assert.Equal(t, 1, marked)
	assert.Equal(t, workflow.StatusOverdue, f.invoices.statuses[1])
	assert.Equal(t, workflow.StatusPaid, f.invoices.statuses[2])
}

func TestInvoiceService_Export(t *testing.T) {
	f := newInvoiceFixture(&entity.Project{ID: 1, Name: "Jones", ProductIDs: []string{"sump_pump"}})
	inv, err := f.svc.CreateFromProject(context.Background(), 1)
	require.NoError(t, err)

	var gotProject *entity.Project
	f.exporter.exportFunc = func(ctx context.Context, i *entity.Invoice, p *entity.Project) ([]byte, error) {
		gotProject = p
		return []byte("data"), nil
	}

	out, err := f.svc.Export(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Number+".xlsx", out.Filename)
	assert.Equal(t, "application/test", out.ContentType)
	assert.Equal(t, []byte("data"), out.Data)
	assert.Equal(t, "Jones", gotProject.Name)

	_, err = f.svc.Export(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceService_ListByProject(t *testing.T) {
	f := newInvoiceFixture(&entity.Project{ID: 1, ProductIDs: []string{"sump_pump"}})
	_, err := f.svc.CreateFromProject(context.Background(), 1)
	require.NoError(t, err)
	_, err = f.svc.CreateFromProject(context.Background(), 1)
	require.NoError(t, err)

	list, err := f.svc.ListByProject(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.svc.ListByProject(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComputeTotals_ZeroRate(t *testing.T) {
	inv := &entity.Invoice{LineItems: []entity.InvoiceLineItem{{Amount: 300}, {Amount: 400}}}
	computeTotals(inv)

	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(700)))
	assert.True(t, inv.TaxAmount.IsZero())
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(700)))
}
