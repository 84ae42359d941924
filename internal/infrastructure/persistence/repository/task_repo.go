package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/persistence/sqlite"
)

// TaskRepository implements port.TaskRepository
type TaskRepository struct {
	statusColumn
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		statusColumn: statusColumn{db: db, table: "tasks"},
		db:           db,
		logger:       logger,
	}
}

// Create inserts a task and sets its ID
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	query := `
		INSERT INTO tasks (project_id, title, assigned_to, status, scheduled_for)
		VALUES (?, ?, ?, ?, ?)
	`

	var scheduledFor sql.NullTime
	if task.ScheduledFor != nil {
		scheduledFor = sql.NullTime{Time: task.ScheduledFor.UTC(), Valid: true}
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		task.ProjectID,
		task.Title,
		task.AssignedTo,
		task.Status,
		scheduledFor,
	)
	if err != nil {
		r.logger.Error("Failed to create task", zap.Int64("project_id", task.ProjectID), zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = id
	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	query := `
		SELECT id, project_id, title, assigned_to, status, scheduled_for, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`

	task, err := scanTask(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListByProject returns a project's tasks in creation order
func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]*entity.Task, error) {
	query := `
		SELECT id, project_id, title, assigned_to, status, scheduled_for, created_at, updated_at
		FROM tasks
		WHERE project_id = ?
		ORDER BY id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var task entity.Task
	var scheduledFor sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.AssignedTo,
		&task.Status,
		&scheduledFor,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scheduledFor.Valid {
		task.ScheduledFor = &scheduledFor.Time
	}
	return &task, nil
}

// getExecutor returns appropriate executor based on context
func (r *TaskRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.TaskRepository = (*TaskRepository)(nil)
