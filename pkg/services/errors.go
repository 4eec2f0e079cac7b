// Package services provides the application-facing operations over scripts
// and flow sessions, plus standardized error classification for the API
// layer.
package services

import (
	"errors"
	"fmt"

	"github.com/voxline/scriptflow/pkg/flow"
	"github.com/voxline/scriptflow/pkg/persistence"
	"github.com/voxline/scriptflow/pkg/script"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest     = errors.New("invalid request")
	ErrScriptNameRequired = errors.New("script name is required")
	ErrEmptyUserInput     = errors.New("user input cannot be empty")
	ErrUnknownFormat      = errors.New("unknown export format")

	// ErrScriptRejected wraps the diagnostics of a document that failed the
	// strict load pipeline (422 Unprocessable Entity).
	ErrScriptRejected = errors.New("script document rejected")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrScriptNameRequired) ||
		errors.Is(err, ErrEmptyUserInput) ||
		errors.Is(err, ErrUnknownFormat)
}

// IsRejectionError checks if an error should map to HTTP 422: the request
// was well-formed but the script document failed the load pipeline.
func IsRejectionError(err error) bool {
	if errors.Is(err, ErrScriptRejected) {
		return true
	}

	var loadErr *script.LoadError

	return errors.As(err, &loadErr)
}

// IsNotFoundError checks if an error should map to HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, script.ErrScriptNotFound) ||
		errors.Is(err, flow.ErrSessionNotFound) ||
		persistence.IsNotFound(err)
}
