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

// CreateTaskInput holds the fields for a new task
type CreateTaskInput struct {
	Title        string     `json:"title"`
	AssignedTo   string     `json:"assigned_to"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// TaskService manages field tasks on a project
type TaskService interface {
	Create(ctx context.Context, projectID int64, input CreateTaskInput) (*entity.Task, error)
	Get(ctx context.Context, id int64) (*entity.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.Task, error)
}

type taskServiceImpl struct {
	taskRepo    port.TaskRepository
	projectRepo port.ProjectRepository
	initial     workflow.Status
	logger      Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo port.TaskRepository, projectRepo port.ProjectRepository, registry *workflow.Registry, logger Logger) TaskService {
	def, _ := registry.Lookup(workflow.KindTask)
	return &taskServiceImpl{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		initial:     def.InitialStatus(),
		logger:      logger,
	}
}

func (s *taskServiceImpl) Create(ctx context.Context, projectID int64, input CreateTaskInput) (*entity.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	if err := requireProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &entity.Task{
		ProjectID:    projectID,
		Title:        title,
		AssignedTo:   input.AssignedTo,
		Status:       s.initial,
		ScheduledFor: input.ScheduledFor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("Task created", "task_id", task.ID, "project_id", projectID)
	return task, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*entity.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	return task, nil
}

func (s *taskServiceImpl) ListByProject(ctx context.Context, projectID int64) ([]*entity.Task, error) {
	if err := requireProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func requireProject(ctx context.Context, repo port.ProjectRepository, id int64) error {
	_, found, err := repo.GetStatus(ctx, id)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: project %d", ErrNotFound, id)
	}
	return nil
}
