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

// ProjectRepository implements port.ProjectRepository
type ProjectRepository struct {
	statusColumn
	db     *sql.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		statusColumn: statusColumn{db: db, table: "projects"},
		db:           db,
		logger:       logger,
	}
}

// Create inserts a project and sets its ID
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	productIDs, err := encodeIDs(project.ProductIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (name, client_name, address, status, product_ids, production_days)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		project.Name,
		project.ClientName,
		project.Address,
		project.Status,
		productIDs,
		project.ProductionDays,
	)
	if err != nil {
		r.logger.Error("Failed to create project", zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	project.ID = id
	return nil
}

// GetByID retrieves a project by ID. It returns nil when there is none.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	query := `
		SELECT id, name, client_name, address, status, product_ids, production_days,
			created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	project, err := scanProject(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List returns projects newest first
func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	query := `
		SELECT id, name, client_name, address, status, product_ids, production_days,
			created_at, updated_at
		FROM projects
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateProducts replaces the project's product list and production days
func (r *ProjectRepository) UpdateProducts(ctx context.Context, id int64, productIDs []string, productionDays int) error {
	encoded, err := encodeIDs(productIDs)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET product_ids = ?, production_days = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, encoded, productionDays, id)
	if err != nil {
		r.logger.Error("Failed to update project products", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update project products: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project not found: %d", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*entity.Project, error) {
	var project entity.Project
	var productIDs string

	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.ClientName,
		&project.Address,
		&project.Status,
		&productIDs,
		&project.ProductionDays,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if project.ProductIDs, err = decodeIDs(productIDs); err != nil {
		return nil, err
	}
	return &project, nil
}

// getExecutor returns appropriate executor based on context
func (r *ProjectRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.ProjectRepository = (*ProjectRepository)(nil)
