package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/persistence/sqlite"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

const notificationColumns = `
	id, entity_kind, entity_id, status, role, message, delivery_status,
	error_message, attempts, sent_at, created_at
`

// Create inserts a notification and sets its ID
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (entity_kind, entity_id, status, role, message, delivery_status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	deliveryStatus := n.DeliveryStatus
	if deliveryStatus == "" {
		deliveryStatus = entity.NotificationStatusPending
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		n.EntityKind,
		n.EntityID,
		n.Status,
		n.Role,
		n.Message,
		deliveryStatus,
	)
	if err != nil {
		r.logger.Error("Failed to create notification",
			zap.String("entity_kind", string(n.EntityKind)),
			zap.Int64("entity_id", n.EntityID),
			zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = id
	n.DeliveryStatus = deliveryStatus
	return nil
}

// ListByEntity returns the notifications produced for one entity, oldest first
func (r *NotificationRepository) ListByEntity(ctx context.Context, kind workflow.Kind, entityID int64) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE entity_kind = ? AND entity_id = ?
		ORDER BY id ASC
	`
	return r.query(ctx, query, kind, entityID)
}

// ListFailed returns failed notifications with fewer than maxAttempts attempts
func (r *NotificationRepository) ListFailed(ctx context.Context, maxAttempts, limit int) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE delivery_status = ? AND attempts < ?
		ORDER BY id ASC
		LIMIT ?
	`
	return r.query(ctx, query, entity.NotificationStatusFailed, maxAttempts, limit)
}

// RecordAttempt increments attempts and stores the delivery outcome
func (r *NotificationRepository) RecordAttempt(ctx context.Context, id int64, status, errorMsg string) error {
	query := `
		UPDATE notifications
		SET delivery_status = ?,
			error_message = ?,
			attempts = attempts + 1,
			sent_at = CASE WHEN ? = ? THEN CURRENT_TIMESTAMP ELSE sent_at END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, status, errorMsg, status, entity.NotificationStatusSent, id)
	if err != nil {
		r.logger.Error("Failed to record notification attempt", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to record notification attempt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("notification not found: %d", id)
	}
	return nil
}

func (r *NotificationRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Notification, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var sentAt sql.NullTime
		if err := rows.Scan(
			&n.ID,
			&n.EntityKind,
			&n.EntityID,
			&n.Status,
			&n.Role,
			&n.Message,
			&n.DeliveryStatus,
			&n.ErrorMessage,
			&n.Attempts,
			&sentAt,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// getExecutor returns appropriate executor based on context
func (r *NotificationRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
