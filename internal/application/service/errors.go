package service

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed or out-of-range requests
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoBillableServices is returned when a project's products price to nothing
	ErrNoBillableServices = errors.New("no billable services")

	// ErrUnmappedRole is returned when an application role has no workflow role
	ErrUnmappedRole = errors.New("role has no workflow mapping")
)
