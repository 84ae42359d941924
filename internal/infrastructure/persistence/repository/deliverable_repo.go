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

// DeliverableRepository implements port.DeliverableRepository
type DeliverableRepository struct {
	statusColumn
	db     *sql.DB
	logger *zap.Logger
}

// NewDeliverableRepository creates a new deliverable repository
func NewDeliverableRepository(db *sql.DB, logger *zap.Logger) *DeliverableRepository {
	return &DeliverableRepository{
		statusColumn: statusColumn{db: db, table: "deliverables"},
		db:           db,
		logger:       logger,
	}
}

// Create inserts a deliverable and sets its ID
func (r *DeliverableRepository) Create(ctx context.Context, deliverable *entity.Deliverable) error {
	query := `
		INSERT INTO deliverables (project_id, name, kind, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		deliverable.ProjectID,
		deliverable.Name,
		deliverable.Kind,
		deliverable.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create deliverable", zap.Int64("project_id", deliverable.ProjectID), zap.Error(err))
		return fmt.Errorf("failed to create deliverable: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	deliverable.ID = id
	return nil
}

// GetByID retrieves a deliverable by ID
func (r *DeliverableRepository) GetByID(ctx context.Context, id int64) (*entity.Deliverable, error) {
	query := `
		SELECT id, project_id, name, kind, status, created_at, updated_at
		FROM deliverables
		WHERE id = ?
	`

	var d entity.Deliverable
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.ProjectID, &d.Name, &d.Kind, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deliverable: %w", err)
	}
	return &d, nil
}

// ListByProject returns a project's deliverables in creation order
func (r *DeliverableRepository) ListByProject(ctx context.Context, projectID int64) ([]*entity.Deliverable, error) {
	query := `
		SELECT id, project_id, name, kind, status, created_at, updated_at
		FROM deliverables
		WHERE project_id = ?
		ORDER BY id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliverables: %w", err)
	}
	defer rows.Close()

	var deliverables []*entity.Deliverable
	for rows.Next() {
		var d entity.Deliverable
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.Kind, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deliverable: %w", err)
		}
		deliverables = append(deliverables, &d)
	}

	return deliverables, rows.Err()
}

// getExecutor returns appropriate executor based on context
func (r *DeliverableRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.DeliverableRepository = (*DeliverableRepository)(nil)
