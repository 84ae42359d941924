package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/foundationpro/inspection-billing/internal/application/dispatcher"
	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/event"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// StatusChange describes a committed status transition
type StatusChange struct {
	Kind     workflow.Kind   `json:"kind"`
	EntityID int64           `json:"entity_id"`
	From     workflow.Status `json:"from"`
	To       workflow.Status `json:"to"`
	Actor    entity.Actor    `json:"actor"`
}

// StatusService is the single entry point for changing workflow status on
// any entity kind
type StatusService interface {
	// ChangeStatus validates reachability and permission, persists the new
	// status and publishes a status changed event
	ChangeStatus(ctx context.Context, kind workflow.Kind, id int64, to workflow.Status, actor entity.Actor) (*StatusChange, error)

	// AvailableTransitions lists the statuses actor could move the entity into
	AvailableTransitions(ctx context.Context, kind workflow.Kind, id int64, actor entity.Actor) ([]workflow.Status, error)
}

type statusServiceImpl struct {
	registry   *workflow.Registry
	stores     map[workflow.Kind]port.StatusRepository
	dispatcher dispatcher.Dispatcher
	txManager  port.TransactionManager
	logger     Logger
}

// NewStatusService creates a new StatusService. stores maps each workflow
// kind to the repository holding that entity's status.
func NewStatusService(
	registry *workflow.Registry,
	stores map[workflow.Kind]port.StatusRepository,
	dispatcher dispatcher.Dispatcher,
	txManager port.TransactionManager,
	logger Logger,
) StatusService {
	return &statusServiceImpl{
		registry:   registry,
		stores:     stores,
		dispatcher: dispatcher,
		txManager:  txManager,
		logger:     logger,
	}
}

func (s *statusServiceImpl) ChangeStatus(ctx context.Context, kind workflow.Kind, id int64, to workflow.Status, actor entity.Actor) (*StatusChange, error) {
	role, def, store, err := s.resolve(kind, actor)
	if err != nil {
		return nil, err
	}

	change := &StatusChange{Kind: kind, EntityID: id, To: to, Actor: actor}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		current, found, err := store.GetStatus(txCtx, id)
		if err != nil {
			return fmt.Errorf("get %s status: %w", kind, err)
		}
		if !found {
			return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
		}
		change.From = current

		machine, err := workflow.NewMachine(def, current)
		if err != nil {
			return err
		}
		if err := machine.Transition(to, role); err != nil {
			return err
		}

		if err := store.UpdateStatus(txCtx, id, current, to); err != nil {
			return fmt.Errorf("update %s status: %w", kind, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Status change rejected",
			"kind", kind,
			"entity_id", id,
			"from", change.From,
			"to", to,
			"actor_id", actor.UserID,
			"actor_role", actor.Role,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("Status changed",
		"kind", kind,
		"entity_id", id,
		"from", change.From,
		"to", to,
		"actor_id", actor.UserID,
		"actor_role", actor.Role,
	)

	evt := event.NewEvent(event.TypeStatusChanged, kind.String(), id, map[string]interface{}{
		event.KeyFromStatus: change.From.String(),
		event.KeyToStatus:   to.String(),
		event.KeyActorID:    actor.UserID,
		event.KeyActorRole:  string(actor.Role),
	})
	// The status is committed; handler failures are reported, not returned.
	if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
		s.logger.Error("Status change handlers failed",
			"kind", kind,
			"entity_id", id,
			"event_id", evt.ID,
			"error", err,
		)
	}

	return change, nil
}

func (s *statusServiceImpl) AvailableTransitions(ctx context.Context, kind workflow.Kind, id int64, actor entity.Actor) ([]workflow.Status, error) {
	role, def, store, err := s.resolve(kind, actor)
	if err != nil {
		if errors.Is(err, ErrUnmappedRole) {
			return []workflow.Status{}, nil
		}
		return nil, err
	}

	current, found, err := store.GetStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s status: %w", kind, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}

	machine, err := workflow.NewMachine(def, current)
	if err != nil {
		// an unrecognized stored status has no outgoing transitions
		s.logger.Error("Stored status not in workflow", "kind", kind, "id", id, "status", current, "error", err)
		return []workflow.Status{}, nil
	}
	available := machine.Available(role)
	if available == nil {
		available = []workflow.Status{}
	}
	return available, nil
}

func (s *statusServiceImpl) resolve(kind workflow.Kind, actor entity.Actor) (workflow.Role, *workflow.Definition, port.StatusRepository, error) {
	def, ok := s.registry.Lookup(kind)
	if !ok {
		return "", nil, nil, fmt.Errorf("%w: %s", workflow.ErrUnknownWorkflow, kind)
	}
	store, ok := s.stores[kind]
	if !ok {
		return "", nil, nil, fmt.Errorf("%w: no store for %s", workflow.ErrUnknownWorkflow, kind)
	}
	role, ok := actor.Role.WorkflowRole()
	if !ok {
		return "", nil, nil, fmt.Errorf("%w: %q: %w", ErrUnmappedRole, actor.Role, workflow.ErrPermissionDenied)
	}
	return role, def, store, nil
}
