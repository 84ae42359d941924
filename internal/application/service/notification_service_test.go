package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/event"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

func TestNotificationService_NotifyStatusChange(t *testing.T) {
	repo := newMockNotificationRepo()
	messenger := &mockMessenger{}
	svc := NewNotificationService(workflow.DefaultRegistry(), repo, messenger, 3, &mockLogger{})

	sent, err := svc.NotifyStatusChange(context.Background(), workflow.KindDeliverable, 5, workflow.StatusApproved)
	require.NoError(t, err)
	require.Len(t, sent, 2)

	assert.Equal(t, []workflow.Role{workflow.RoleScheduler, workflow.RoleClientAP}, messenger.Sent())
	for _, n := range sent {
		assert.Equal(t, entity.NotificationStatusSent, n.DeliveryStatus)
		assert.Equal(t, 1, n.Attempts)
		assert.NotNil(t, n.SentAt)
		assert.Equal(t, workflow.KindDeliverable, n.EntityKind)
		assert.Equal(t, int64(5), n.EntityID)
		assert.Equal(t, []string{entity.NotificationStatusSent}, repo.attempts[n.ID])
	}
}

func TestNotificationService_NoConfigIsNoop(t *testing.T) {
	repo := newMockNotificationRepo()
	messenger := &mockMessenger{}
	svc := NewNotificationService(workflow.DefaultRegistry(), repo, messenger, 3, &mockLogger{})

	sent, err := svc.NotifyStatusChange(context.Background(), workflow.KindProject, 1, workflow.StatusDraft)
	require.NoError(t, err)
	assert.Empty(t, sent)
	assert.Empty(t, messenger.Sent())

	sent, err = svc.NotifyStatusChange(context.Background(), workflow.Kind("estimate"), 1, workflow.StatusSent)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestNotificationService_DeliveryFailureIsRecorded(t *testing.T) {
	repo := newMockNotificationRepo()
	messenger := &mockMessenger{
		sendFunc: func(ctx context.Context, role workflow.Role, title, content string) error {
			if role == workflow.RoleClientAP {
				return errors.New("chat not configured")
			}
			return nil
		},
	}
	svc := NewNotificationService(workflow.DefaultRegistry(), repo, messenger, 3, &mockLogger{})

	sent, err := svc.NotifyStatusChange(context.Background(), workflow.KindInvoice, 9, workflow.StatusOverdue)
	require.NoError(t, err)
	require.Len(t, sent, 2)

	assert.Equal(t, entity.NotificationStatusSent, sent[0].DeliveryStatus)
	assert.Equal(t, entity.NotificationStatusFailed, sent[1].DeliveryStatus)
	assert.Equal(t, "chat not configured", sent[1].ErrorMessage)
	assert.Nil(t, sent[1].SentAt)
}

func TestNotificationService_CreateError(t *testing.T) {
	repo := newMockNotificationRepo()
	repo.createFunc = func(ctx context.Context, n *entity.Notification) error {
		return errors.New("db locked")
	}
	svc := NewNotificationService(workflow.DefaultRegistry(), repo, &mockMessenger{}, 3, &mockLogger{})

	_, err := svc.NotifyStatusChange(context.Background(), workflow.KindTask, 1, workflow.StatusAssigned)
	assert.Error(t, err)
}

func TestNotificationService_HandleStatusChanged(t *testing.T) {
	repo := newMockNotificationRepo()
	messenger := &mockMessenger{}
	svc := NewNotificationService(workflow.DefaultRegistry(), repo, messenger, 3, &mockLogger{})

	evt := event.NewEvent(event.TypeStatusChanged, "task", 3, map[string]interface{}{
		event.KeyFromStatus: "in_progress",
		event.KeyToStatus:   "completed",
	})
	require.NoError(t, svc.HandleStatusChanged(context.Background(), evt))

	assert.Equal(t, []workflow.Role{workflow.RoleAdmin, workflow.RoleScheduler}, messenger.Sent())

	list, err := svc.ListForEntity(context.Background(), workflow.KindTask, 3)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestNotificationService_RetryFailed(t *testing.T) {
	repo := newMockNotificationRepo()
	repo.failed = []*entity.Notification{
		{ID: 1, EntityKind: workflow.KindProject, EntityID: 1, Status: workflow.StatusScheduled, Role: workflow.RoleFieldTech, Attempts: 1},
		{ID: 2, EntityKind: workflow.KindProject, EntityID: 1, Status: workflow.StatusCompleted, Role: workflow.RoleClientAP, Attempts: 2},
	}
	messenger := &mockMessenger{
		sendFunc: func(ctx context.Context, role workflow.Role, title, content string) error {
			if role == workflow.RoleClientAP {
				return errors.New("still down")
			}
			return nil
		},
	}
	svc := NewNotificationService(workflow.DefaultRegistry(), repo, messenger, 3, &mockLogger{})

	delivered, err := svc.RetryFailed(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 2, repo.failed[0].Attempts)
	assert.Equal(t, 3, repo.failed[1].Attempts)
	assert.Equal(t, []string{entity.NotificationStatusSent}, repo.attempts[1])
	assert.Equal(t, []string{entity.NotificationStatusFailed}, repo.attempts[2])
}
