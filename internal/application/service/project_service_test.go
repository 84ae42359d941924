package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundationpro/inspection-billing/internal/application/dispatcher"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/pricing"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

func newProjectServiceForTest(repo *mockProjectRepo, reader *mockDocumentReader) ProjectService {
	if reader == nil {
		reader = &mockDocumentReader{}
	}
	return NewProjectService(repo, NewPricingService(pricing.Default()), reader,
		dispatcher.NewDispatcher(), workflow.DefaultRegistry(), &mockLogger{})
}

func TestProjectService_Create(t *testing.T) {
	repo := newMockProjectRepo()
	svc := newProjectServiceForTest(repo, nil)

	project, err := svc.Create(context.Background(), CreateProjectInput{
		Name:           "  Smith Residence ",
		ClientName:     "Smith",
		ProductIDs:     []string{"intellijack", "sump_pump", "intellijack"},
		ProductionDays: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), project.ID)
	assert.Equal(t, "Smith Residence", project.Name)
	assert.Equal(t, workflow.StatusDraft, project.Status)
	assert.Equal(t, []string{"sump_pump", "intellijack"}, project.ProductIDs)
}

func TestProjectService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateProjectInput
	}{
		{"missing name", CreateProjectInput{Name: " "}},
		{"negative days", CreateProjectInput{Name: "x", ProductionDays: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newProjectServiceForTest(newMockProjectRepo(), nil)
			_, err := svc.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestProjectService_CreateKeepsUnknownProducts(t *testing.T) {
	repo := newMockProjectRepo()
	logger := &mockLogger{}
	svc := NewProjectService(repo, NewPricingService(pricing.Default()), &mockDocumentReader{},
		dispatcher.NewDispatcher(), workflow.DefaultRegistry(), logger)

	project, err := svc.Create(context.Background(), CreateProjectInput{
		Name:       "x",
		ProductIDs: []string{"legacy_gutter_guard", "sump_pump", " ", "legacy_gutter_guard"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sump_pump", "legacy_gutter_guard"}, project.ProductIDs)
	assert.Contains(t, logger.infos, "Keeping products not in catalog")

	quote, err := svc.CalculateServices(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, quote.Services, 1)
	assert.Equal(t, []string{"sump_pump"}, quote.Services[0].Products)
}

func TestProjectService_CreateRepoError(t *testing.T) {
	repo := newMockProjectRepo()
	repo.createErr = errors.New("constraint")
	svc := newProjectServiceForTest(repo, nil)

	_, err := svc.Create(context.Background(), CreateProjectInput{Name: "x"})
	assert.Error(t, err)
}

func TestProjectService_GetNotFound(t *testing.T) {
	svc := newProjectServiceForTest(newMockProjectRepo(), nil)
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService_SetProducts(t *testing.T) {
	repo := newMockProjectRepo(&entity.Project{ID: 1, Name: "p", Status: workflow.StatusScheduled})
	svc := newProjectServiceForTest(repo, nil)

	project, err := svc.SetProducts(context.Background(), 1, []string{"wall_pins", "wall_anchors"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"wall_anchors", "wall_pins"}, project.ProductIDs)
	assert.Equal(t, 3, project.ProductionDays)
	assert.Equal(t, workflow.StatusScheduled, project.Status)

	_, err = svc.SetProducts(context.Background(), 2, nil, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	project, err = svc.SetProducts(context.Background(), 1, []string{"nope", "wall_pins"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"wall_pins", "nope"}, project.ProductIDs)

	_, err = svc.SetProducts(context.Background(), 1, nil, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectService_DetectProducts(t *testing.T) {
	repo := newMockProjectRepo(&entity.Project{ID: 1, Name: "p", Status: workflow.StatusDraft, ProductIDs: []string{"crawlseal_liner"}})
	reader := &mockDocumentReader{text: "Scope: install Crawl Space Dehumidifier, ExTremeBloc panels and a CrawlSeal liner."}
	svc := newProjectServiceForTest(repo, reader)

	result, err := svc.DetectProducts(context.Background(), 1, "proposal.pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, []string{"crawlseal_liner", "crawlspace_dehumidifier", "extremebloc_insulation"}, result.Matched)
	assert.Equal(t, []string{"crawlspace_dehumidifier", "extremebloc_insulation"}, result.Added)
	assert.Equal(t, []string{"crawlseal_liner", "crawlspace_dehumidifier", "extremebloc_insulation"}, result.Project.ProductIDs)
	require.Len(t, result.Systems, 1)
	assert.True(t, result.Systems[0].IsComplete)

	stored, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, result.Project.ProductIDs, stored.ProductIDs)
}

func TestProjectService_DetectProductsKeepsStoredProducts(t *testing.T) {
	repo := newMockProjectRepo(&entity.Project{
		ID:         1,
		Name:       "p",
		Status:     workflow.StatusDraft,
		ProductIDs: []string{"sump_pump", "legacy_gutter_guard"},
	})
	svc := newProjectServiceForTest(repo, &mockDocumentReader{text: "IntelliJack install"})

	result, err := svc.DetectProducts(context.Background(), 1, "notes.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"intellijack"}, result.Added)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"sump_pump", "intellijack", "legacy_gutter_guard"}, stored.ProductIDs)
	assert.Equal(t, stored.ProductIDs, result.Project.ProductIDs)
}

func TestProjectService_DetectProductsErrors(t *testing.T) {
	repo := newMockProjectRepo(&entity.Project{ID: 1, Name: "p", Status: workflow.StatusDraft})

	svc := newProjectServiceForTest(repo, &mockDocumentReader{err: errors.New("corrupt pdf")})
	_, err := svc.DetectProducts(context.Background(), 1, "bad.pdf", []byte("x"))
	assert.Error(t, err)

	_, err = svc.DetectProducts(context.Background(), 1, "empty.pdf", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.DetectProducts(context.Background(), 9, "a.pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService_CalculateServices(t *testing.T) {
	repo := newMockProjectRepo(&entity.Project{
		ID:             1,
		Name:           "p",
		Status:         workflow.StatusInProgress,
		ProductIDs:     []string{"drain_tile_basement", "sump_pump", "push_piers", "intellijack"},
		ProductionDays: 2,
	})
	svc := newProjectServiceForTest(repo, nil)

	quote, err := svc.CalculateServices(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, quote.Services, 3)

	assert.Equal(t, "basement_water_mgmt_base", quote.Services[0].ServiceID)
	assert.Equal(t, int64(300), quote.Services[0].Price)
	assert.Equal(t, "pier_inspection", quote.Services[1].ServiceID)
	assert.Equal(t, 2, quote.Services[1].ProductionDays)
	assert.Equal(t, int64(1600), quote.Services[1].Price)
	assert.Equal(t, "floor_support_inspection", quote.Services[2].ServiceID)
	assert.Equal(t, 0, quote.Services[2].ProductionDays)
	assert.Equal(t, int64(400), quote.Services[2].Price)
	assert.Equal(t, int64(2300), quote.Total)
}

func TestProjectService_List(t *testing.T) {
	repo := newMockProjectRepo()
	svc := newProjectServiceForTest(repo, nil)
	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(context.Background(), CreateProjectInput{Name: name})
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name)

	list, err = svc.List(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
