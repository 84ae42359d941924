package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/foundationpro/inspection-billing/internal/application/dispatcher"
	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/event"
	"github.com/foundationpro/inspection-billing/internal/domain/pricing"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// CreateProjectInput holds the fields for a new project
type CreateProjectInput struct {
	Name           string   `json:"name"`
	ClientName     string   `json:"client_name"`
	Address        string   `json:"address"`
	ProductIDs     []string `json:"product_ids"`
	ProductionDays int      `json:"production_days"`
}

// DetectionResult reports what a document scan found
type DetectionResult struct {
	Project *entity.Project       `json:"project"`
	Matched []string              `json:"matched"`
	Added   []string              `json:"added"`
	Systems []pricing.SystemMatch `json:"systems"`
}

// ProjectService manages projects and their installed products
type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*entity.Project, error)
	Get(ctx context.Context, id int64) (*entity.Project, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
	SetProducts(ctx context.Context, id int64, productIDs []string, productionDays int) (*entity.Project, error)
	DetectProducts(ctx context.Context, id int64, filename string, data []byte) (*DetectionResult, error)
	CalculateServices(ctx context.Context, id int64) (*Quote, error)
}

type projectServiceImpl struct {
	projectRepo port.ProjectRepository
	pricing     PricingService
	reader      port.DocumentReader
	dispatcher  dispatcher.Dispatcher
	initial     workflow.Status
	logger      Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo port.ProjectRepository,
	pricing PricingService,
	reader port.DocumentReader,
	dispatcher dispatcher.Dispatcher,
	registry *workflow.Registry,
	logger Logger,
) ProjectService {
	def, _ := registry.Lookup(workflow.KindProject)
	return &projectServiceImpl{
		projectRepo: projectRepo,
		pricing:     pricing,
		reader:      reader,
		dispatcher:  dispatcher,
		initial:     def.InitialStatus(),
		logger:      logger,
	}
}

func (s *projectServiceImpl) Create(ctx context.Context, input CreateProjectInput) (*entity.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	products := s.normalizeProducts(input.ProductIDs)
	if input.ProductionDays < 0 {
		return nil, fmt.Errorf("%w: production days cannot be negative", ErrInvalidInput)
	}

	now := time.Now()
	project := &entity.Project{
		Name:           strings.TrimSpace(input.Name),
		ClientName:     input.ClientName,
		Address:        input.Address,
		Status:         s.initial,
		ProductIDs:     products,
		ProductionDays: input.ProductionDays,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		s.logger.Error("Failed to create project", "error", err)
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("Project created", "project_id", project.ID, "products", len(products))
	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeProjectCreated, workflow.KindProject.String(), project.ID, nil))

	return project, nil
}

func (s *projectServiceImpl) Get(ctx context.Context, id int64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, id)
	}
	return project, nil
}

func (s *projectServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	projects, err := s.projectRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *projectServiceImpl) SetProducts(ctx context.Context, id int64, productIDs []string, productionDays int) (*entity.Project, error) {
	products := s.normalizeProducts(productIDs)
	if productionDays < 0 {
		return nil, fmt.Errorf("%w: production days cannot be negative", ErrInvalidInput)
	}

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.UpdateProducts(ctx, id, products, productionDays); err != nil {
		return nil, fmt.Errorf("update products: %w", err)
	}
	project.ProductIDs = products
	project.ProductionDays = productionDays

	s.logger.Info("Project products updated", "project_id", id, "products", len(products), "production_days", productionDays)
	return project, nil
}

func (s *projectServiceImpl) DetectProducts(ctx context.Context, id int64, filename string, data []byte) (*DetectionResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidInput)
	}

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	text, err := s.reader.ExtractText(ctx, filename, data)
	if err != nil {
		s.logger.Error("Failed to read document", "project_id", id, "filename", filename, "error", err)
		return nil, fmt.Errorf("read document: %w", err)
	}

	matched := s.pricing.MatchText(text)

	existing := make(map[string]bool, len(project.ProductIDs))
	for _, p := range project.ProductIDs {
		existing[p] = true
	}
	added := []string{}
	for _, p := range matched {
		if !existing[p] {
			added = append(added, p)
		}
	}

	if len(added) > 0 {
		merged := s.normalizeProducts(append(append([]string{}, project.ProductIDs...), added...))
		if err := s.projectRepo.UpdateProducts(ctx, id, merged, project.ProductionDays); err != nil {
			return nil, fmt.Errorf("update products: %w", err)
		}
		project.ProductIDs = merged

		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeProductsDetected, workflow.KindProject.String(), id,
			map[string]interface{}{"added": strings.Join(added, ",")}))
	}

	s.logger.Info("Products detected from document",
		"project_id", id,
		"filename", filename,
		"text_length", len(text),
		"matched", len(matched),
		"added", len(added),
	)

	return &DetectionResult{
		Project: project,
		Matched: matched,
		Added:   added,
		Systems: s.pricing.DetectSystems(project.ProductIDs),
	}, nil
}

func (s *projectServiceImpl) CalculateServices(ctx context.Context, id int64) (*Quote, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.pricing.Quote(project.ProductIDs, project.ProductionDays), nil
}

// normalizeProducts deduplicates ids and puts catalog products in catalog
// order. Ids the catalog does not know are kept after them in input order;
// pricing ignores them.
func (s *projectServiceImpl) normalizeProducts(ids []string) []string {
	cat := s.pricing.Catalog()

	seen := make(map[string]bool, len(ids))
	known := make([]string, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if cat.Order(id) < 0 {
			unknown = append(unknown, id)
			continue
		}
		known = append(known, id)
	}

	sort.Slice(known, func(i, j int) bool { return cat.Order(known[i]) < cat.Order(known[j]) })
	if len(unknown) > 0 {
		s.logger.Info("Keeping products not in catalog", "products", strings.Join(unknown, ","))
	}
	return append(known, unknown...)
}
