package domain

import (
	"fmt"
	"time"
)

var (
	ErrNotFound     = errString("not found")
	ErrConflict     = errString("conflict")
	ErrInvalidInput = errString("invalid input")
	// ErrKeyExists is returned by blob stores when the key is already taken.
	ErrKeyExists = errString("object key already exists")
)

type errString string

func (e errString) Error() string { return string(e) }

// ConflictError reports a job that is not pending when execution is requested.
type ConflictError struct {
	JobID  string
	Status JobStatus
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("job %s is already %s", e.JobID, e.Status)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NavigationError is returned when every navigation attempt failed.
type NavigationError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// AnalysisTimeoutError is returned when the completion service did not answer in time.
type AnalysisTimeoutError struct {
	Timeout time.Duration
}

func (e *AnalysisTimeoutError) Error() string {
	return fmt.Sprintf("risk analysis timed out after %s", e.Timeout)
}

type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// EscalationError never leaves the escalation manager; it exists so logs
// carry a consistent shape.
type EscalationError struct {
	JobID string
	Stage string
	Err   error
}

func (e *EscalationError) Error() string {
	return fmt.Sprintf("escalation of job %s failed at %s: %v", e.JobID, e.Stage, e.Err)
}

func (e *EscalationError) Unwrap() error { return e.Err }

// Invalid wraps ErrInvalidInput with a message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
