package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/event"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// NotificationService fans status changes out to the roles configured in
// the workflow tables
type NotificationService interface {
	// NotifyStatusChange records and delivers one notification per configured
	// role. Statuses without a notification config are a no-op.
	NotifyStatusChange(ctx context.Context, kind workflow.Kind, entityID int64, status workflow.Status) ([]*entity.Notification, error)

	// HandleStatusChanged adapts NotifyStatusChange to the event dispatcher
	HandleStatusChanged(ctx context.Context, evt *event.Event) error

	// RetryFailed re-delivers failed notifications and returns how many succeeded
	RetryFailed(ctx context.Context, limit int) (int, error)

	// ListForEntity returns the notifications produced for one entity
	ListForEntity(ctx context.Context, kind workflow.Kind, entityID int64) ([]*entity.Notification, error)
}

type notificationServiceImpl struct {
	registry         *workflow.Registry
	notificationRepo port.NotificationRepository
	messenger        port.RoleMessenger
	maxAttempts      int
	logger           Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	registry *workflow.Registry,
	notificationRepo port.NotificationRepository,
	messenger port.RoleMessenger,
	maxAttempts int,
	logger Logger,
) NotificationService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &notificationServiceImpl{
		registry:         registry,
		notificationRepo: notificationRepo,
		messenger:        messenger,
		maxAttempts:      maxAttempts,
		logger:           logger,
	}
}

func (s *notificationServiceImpl) NotifyStatusChange(ctx context.Context, kind workflow.Kind, entityID int64, status workflow.Status) ([]*entity.Notification, error) {
	cfg, ok := s.registry.GetNotificationConfig(kind, status)
	if !ok {
		return nil, nil
	}

	s.logger.Info("Sending status notifications",
		"kind", kind,
		"entity_id", entityID,
		"status", status,
		"roles", len(cfg.Roles),
	)

	sent := make([]*entity.Notification, 0, len(cfg.Roles))
	for _, role := range cfg.Roles {
		n := &entity.Notification{
			EntityKind:     kind,
			EntityID:       entityID,
			Status:         status,
			Role:           role,
			Message:        cfg.Message,
			DeliveryStatus: entity.NotificationStatusPending,
			CreatedAt:      time.Now(),
		}
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			return sent, fmt.Errorf("create notification: %w", err)
		}

		s.deliver(ctx, n)
		sent = append(sent, n)
	}

	return sent, nil
}

func (s *notificationServiceImpl) HandleStatusChanged(ctx context.Context, evt *event.Event) error {
	kind := workflow.Kind(evt.EntityKind)
	status := workflow.Status(evt.GetPayloadString(event.KeyToStatus))
	_, err := s.NotifyStatusChange(ctx, kind, evt.EntityID, status)
	return err
}

func (s *notificationServiceImpl) RetryFailed(ctx context.Context, limit int) (int, error) {
	failed, err := s.notificationRepo.ListFailed(ctx, s.maxAttempts, limit)
	if err != nil {
		return 0, fmt.Errorf("list failed notifications: %w", err)
	}

	delivered := 0
	for _, n := range failed {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if s.deliver(ctx, n) {
			delivered++
		}
	}

	if len(failed) > 0 {
		s.logger.Info("Retried failed notifications", "attempted", len(failed), "delivered", delivered)
	}
	return delivered, nil
}

func (s *notificationServiceImpl) ListForEntity(ctx context.Context, kind workflow.Kind, entityID int64) ([]*entity.Notification, error) {
	list, err := s.notificationRepo.ListByEntity(ctx, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// deliver sends n and records the outcome. Delivery errors are stored on the
// record rather than returned.
func (s *notificationServiceImpl) deliver(ctx context.Context, n *entity.Notification) bool {
	title := fmt.Sprintf("%s #%d is now %s", titleCase(string(n.EntityKind)), n.EntityID, n.Status)

	status, errMsg := entity.NotificationStatusSent, ""
	if err := s.messenger.SendToRole(ctx, n.Role, title, n.Message); err != nil {
		status, errMsg = entity.NotificationStatusFailed, err.Error()
		s.logger.Error("Notification delivery failed",
			"notification_id", n.ID,
			"role", n.Role,
			"error", err,
		)
	}

	n.DeliveryStatus = status
	n.ErrorMessage = errMsg
	n.Attempts++
	if status == entity.NotificationStatusSent {
		now := time.Now()
		n.SentAt = &now
	}

	if err := s.notificationRepo.RecordAttempt(ctx, n.ID, status, errMsg); err != nil {
		s.logger.Error("Failed to record notification attempt", "notification_id", n.ID, "error", err)
	}
	return status == entity.NotificationStatusSent
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
