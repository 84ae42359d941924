package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// CreateDeliverableInput holds the fields for a new deliverable
type CreateDeliverableInput struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// DeliverableService manages client deliverables on a project
type DeliverableService interface {
	Create(ctx context.Context, projectID int64, input CreateDeliverableInput) (*entity.Deliverable, error)
	Get(ctx context.Context, id int64) (*entity.Deliverable, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.Deliverable, error)
}

type deliverableServiceImpl struct {
	deliverableRepo port.DeliverableRepository
	projectRepo     port.ProjectRepository
	initial         workflow.Status
	logger          Logger
}

// NewDeliverableService creates a new DeliverableService
func NewDeliverableService(deliverableRepo port.DeliverableRepository, projectRepo port.ProjectRepository, registry *workflow.Registry, logger Logger) DeliverableService {
	def, _ := registry.Lookup(workflow.KindDeliverable)
	return &deliverableServiceImpl{
		deliverableRepo: deliverableRepo,
		projectRepo:     projectRepo,
		initial:         def.InitialStatus(),
		logger:          logger,
	}
}

func (s *deliverableServiceImpl) Create(ctx context.Context, projectID int64, input CreateDeliverableInput) (*entity.Deliverable, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: deliverable name is required", ErrInvalidInput)
	}
	kind := input.Kind
	if kind == "" {
		kind = entity.DeliverableKindInspectionReport
	}
	if !entity.IsValidDeliverableKind(kind) {
		return nil, fmt.Errorf("%w: unknown deliverable kind %q", ErrInvalidInput, kind)
	}
	if err := requireProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	d := &entity.Deliverable{
		ProjectID: projectID,
		Name:      name,
		Kind:      kind,
		Status:    s.initial,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deliverableRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create deliverable: %w", err)
	}

	s.logger.Info("Deliverable created", "deliverable_id", d.ID, "project_id", projectID, "kind", kind)
	return d, nil
}

func (s *deliverableServiceImpl) Get(ctx context.Context, id int64) (*entity.Deliverable, error) {
	d, err := s.deliverableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get deliverable: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: deliverable %d", ErrNotFound, id)
	}
	return d, nil
}

func (s *deliverableServiceImpl) ListByProject(ctx context.Context, projectID int64) ([]*entity.Deliverable, error) {
	if err := requireProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	list, err := s.deliverableRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	return list, nil
}
