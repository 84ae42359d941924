package service

import (
	"context"
	"sync"
	"time"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// mockStatusRepo is an in-memory status column
type mockStatusRepo struct {
	mu             sync.Mutex
	statuses       map[int64]workflow.Status
	getStatusErr   error
	updateStatusFn func(ctx context.Context, id int64, from, to workflow.Status) error
}

func newMockStatusRepo(entries map[int64]workflow.Status) *mockStatusRepo {
	if entries == nil {
		entries = make(map[int64]workflow.Status)
	}
	return &mockStatusRepo{statuses: entries}
}

func (m *mockStatusRepo) GetStatus(ctx context.Context, id int64) (workflow.Status, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getStatusErr != nil {
		return "", false, m.getStatusErr
	}
	s, ok := m.statuses[id]
	return s, ok, nil
}

func (m *mockStatusRepo) UpdateStatus(ctx context.Context, id int64, from, to workflow.Status) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statuses[id] != from {
		return port.ErrStatusConflict
	}
	m.statuses[id] = to
	return nil
}

type mockProjectRepo struct {
	*mockStatusRepo
	projects  map[int64]*entity.Project
	nextID    int64
	createErr error
}

func newMockProjectRepo(projects ...*entity.Project) *mockProjectRepo {
	m := &mockProjectRepo{mockStatusRepo: newMockStatusRepo(nil), projects: make(map[int64]*entity.Project)}
	for _, p := range projects {
		m.projects[p.ID] = p
		m.statuses[p.ID] = p.Status
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *mockProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	project.ID = m.nextID
	cp := *project
	m.projects[project.ID] = &cp
	m.statuses[project.ID] = project.Status
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Status = m.statuses[id]
	return &cp, nil
}

func (m *mockProjectRepo) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	var out []*entity.Project
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.projects[id]; ok {
			out = append(out, p)
		}
	}
	if offset >= len(out) {
		return []*entity.Project{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockProjectRepo) UpdateProducts(ctx context.Context, id int64, productIDs []string, productionDays int) error {
	p := m.projects[id]
	p.ProductIDs = productIDs
	p.ProductionDays = productionDays
	return nil
}

type mockInvoiceRepo struct {
	*mockStatusRepo
	invoices  map[int64]*entity.Invoice
	nextID    int64
	issued    map[int64][2]time.Time
	paid      map[int64]time.Time
	pastDue   []*entity.Invoice
	createErr error
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{
		mockStatusRepo: newMockStatusRepo(nil),
		invoices:       make(map[int64]*entity.Invoice),
		issued:         make(map[int64][2]time.Time),
		paid:           make(map[int64]time.Time),
	}
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	inv.ID = m.nextID
	m.invoices[inv.ID] = inv
	m.statuses[inv.ID] = inv.Status
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	return inv, nil
}

func (m *mockInvoiceRepo) ListByProject(ctx context.Context, projectID int64) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for id := int64(1); id <= m.nextID; id++ {
		if inv, ok := m.invoices[id]; ok && inv.ProjectID == projectID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockInvoiceRepo) SetIssued(ctx context.Context, id int64, issuedAt, dueAt time.Time) error {
	m.issued[id] = [2]time.Time{issuedAt, dueAt}
	return nil
}

func (m *mockInvoiceRepo) SetPaid(ctx context.Context, id int64, paidAt time.Time) error {
	m.paid[id] = paidAt
	return nil
}

func (m *mockInvoiceRepo) ListPastDue(ctx context.Context, now time.Time, limit int) ([]*entity.Invoice, error) {
	return m.pastDue, nil
}

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	attempts      map[int64][]string
	createFunc    func(ctx context.Context, n *entity.Notification) error
	failed        []*entity.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{attempts: make(map[int64][]string)}
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = int64(len(m.notifications) + 1)
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) ListByEntity(ctx context.Context, kind workflow.Kind, entityID int64) ([]*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Notification
	for _, n := range m.notifications {
		if n.EntityKind == kind && n.EntityID == entityID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) ListFailed(ctx context.Context, maxAttempts, limit int) ([]*entity.Notification, error) {
	return m.failed, nil
}

func (m *mockNotificationRepo) RecordAttempt(ctx context.Context, id int64, status, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[id] = append(m.attempts[id], status)
	return nil
}

type mockMessenger struct {
	mu       sync.Mutex
	sent     []workflow.Role
	sendFunc func(ctx context.Context, role workflow.Role, title, content string) error
}

func (m *mockMessenger) SendToRole(ctx context.Context, role workflow.Role, title, content string) error {
	if m.sendFunc != nil {
		if err := m.sendFunc(ctx, role, title, content); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, role)
	return nil
}

func (m *mockMessenger) Sent() []workflow.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]workflow.Role(nil), m.sent...)
}

type mockDocumentReader struct {
	text string
	err  error
}

func (m *mockDocumentReader) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	return m.text, m.err
}

type mockExporter struct {
	exportFunc func(ctx context.Context, inv *entity.Invoice, p *entity.Project) ([]byte, error)
}

func (m *mockExporter) Export(ctx context.Context, inv *entity.Invoice, p *entity.Project) ([]byte, error) {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, inv, p)
	}
	return []byte("xlsx"), nil
}

func (m *mockExporter) ContentType() string { return "application/test" }
func (m *mockExporter) Extension() string   { return ".xlsx" }
