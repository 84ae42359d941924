package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when the target status is not reachable from the current one
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus is returned when a status is not declared by the workflow
	ErrInvalidStatus = errors.New("invalid status")

	// ErrPermissionDenied is returned when the acting role may not move an entity into the target status
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnknownWorkflow is returned when no workflow is registered for an entity kind
	ErrUnknownWorkflow = errors.New("unknown workflow")
)
