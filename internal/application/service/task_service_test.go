package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

type mockTaskRepo struct {
	*mockStatusRepo
	tasks map[int64]*entity.Task
}

func (m *mockTaskRepo) Create(ctx context.Context, task *entity.Task) error {
	task.ID = int64(len(m.tasks) + 1)
	m.tasks[task.ID] = task
	m.statuses[task.ID] = task.Status
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	return m.tasks[id], nil
}

func (m *mockTaskRepo) ListByProject(ctx context.Context, projectID int64) ([]*entity.Task, error) {
	var out []*entity.Task
	for id := int64(1); id <= int64(len(m.tasks)); id++ {
		if m.tasks[id].ProjectID == projectID {
			out = append(out, m.tasks[id])
		}
	}
	return out, nil
}

type mockDeliverableRepo struct {
	*mockStatusRepo
	items map[int64]*entity.Deliverable
}

func (m *mockDeliverableRepo) Create(ctx context.Context, d *entity.Deliverable) error {
	d.ID = int64(len(m.items) + 1)
	m.items[d.ID] = d
	m.statuses[d.ID] = d.Status
	return nil
}

func (m *mockDeliverableRepo) GetByID(ctx context.Context, id int64) (*entity.Deliverable, error) {
	return m.items[id], nil
}

func (m *mockDeliverableRepo) ListByProject(ctx context.Context, projectID int64) ([]*entity.Deliverable, error) {
	var out []*entity.Deliverable
	for id := int64(1); id <= int64(len(m.items)); id++ {
		if m.items[id].ProjectID == projectID {
			out = append(out, m.items[id])
		}
	}
	return out, nil
}

func TestTaskService(t *testing.T) {
	projects := newMockProjectRepo(&entity.Project{ID: 1, Status: workflow.StatusScheduled})
	tasks := &mockTaskRepo{mockStatusRepo: newMockStatusRepo(nil), tasks: make(map[int64]*entity.Task)}
	svc := NewTaskService(tasks, projects, workflow.DefaultRegistry(), &mockLogger{})
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, CreateTaskInput{Title: "Install piers", AssignedTo: "u-tech"})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, task.Status)
	assert.Equal(t, int64(1), task.ProjectID)

	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Install piers", got.Title)

	list, err := svc.ListByProject(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Create(ctx, 1, CreateTaskInput{Title: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, 2, CreateTaskInput{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ListByProject(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeliverableService(t *testing.T) {
	projects := newMockProjectRepo(&entity.Project{ID: 1, Status: workflow.StatusInProgress})
	repo := &mockDeliverableRepo{mockStatusRepo: newMockStatusRepo(nil), items: make(map[int64]*entity.Deliverable)}
	svc := NewDeliverableService(repo, projects, workflow.DefaultRegistry(), &mockLogger{})
	ctx := context.Background()

	d, err := svc.Create(ctx, 1, CreateDeliverableInput{Name: "Pier report"})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, d.Status)
	assert.Equal(t, entity.DeliverableKindInspectionReport, d.Kind)

	d, err = svc.Create(ctx, 1, CreateDeliverableInput{Name: "Photos", Kind: entity.DeliverableKindPhotoLog})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliverableKindPhotoLog, d.Kind)

	list, err := svc.ListByProject(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Create(ctx, 1, CreateDeliverableInput{Name: "x", Kind: "VIDEO"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, 1, CreateDeliverableInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Get(ctx, 50)
	assert.ErrorIs(t, err, ErrNotFound)
}
