// Package persistence provides standardized error types for storage
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrScriptNotFound indicates no script document exists under the given name.
	ErrScriptNotFound = errors.New("script not found")

	// ErrScriptAlreadyExists indicates a script document with the same name already exists.
	ErrScriptAlreadyExists = errors.New("script already exists")

	// ErrTranscriptNotFound indicates no transcript was recorded for the given session.
	ErrTranscriptNotFound = errors.New("transcript not found")
)

// ScriptError wraps script storage errors with operation context.
type ScriptError struct {
	Op         string // Operation being performed (e.g., "ScriptByName", "Save", "Delete")
	ScriptName string
	Err        error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s operation failed for script %s: %v", e.Op, e.ScriptName, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

func (e *ScriptError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewScriptError creates a new script storage error with context.
func NewScriptError(op, scriptName string, err error) *ScriptError {
	return &ScriptError{
		Op:         op,
		ScriptName: scriptName,
		Err:        err,
	}
}

// TranscriptError wraps transcript storage errors with operation context.
type TranscriptError struct {
	Op        string
	SessionID string
	Err       error
}

func (e *TranscriptError) Error() string {
	return fmt.Sprintf("%s operation failed for session %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *TranscriptError) Unwrap() error {
	return e.Err
}

func (e *TranscriptError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewTranscriptError creates a new transcript storage error with context.
func NewTranscriptError(op, sessionID string, err error) *TranscriptError {
	return &TranscriptError{
		Op:        op,
		SessionID: sessionID,
		Err:       err,
	}
}

// IsNotFound reports whether the error is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScriptNotFound) || errors.Is(err, ErrTranscriptNotFound)
}
