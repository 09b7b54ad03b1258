package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when a resource is already bound elsewhere,
	// e.g. a provider item linked to a different user
	ErrConflict = errors.New("resource conflict")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when a user is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
	// ErrProviderNotConfigured is returned when the external provider is used
	// without complete credentials; this is a configuration error, never retried
	ErrProviderNotConfigured = errors.New("provider not configured")
	// ErrProviderUnavailable is returned for upstream provider failures
	// (network, malformed response, rejected credentials); callers may retry
	ErrProviderUnavailable = errors.New("provider unavailable")
)
