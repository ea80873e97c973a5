package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserRequired         = errors.New("user id is required")
	ErrUnknownStep          = errors.New("unknown onboarding step")
	ErrStepAhead            = errors.New("step is ahead of the current step")
	ErrStepNotSkippable     = errors.New("step is required and cannot be skipped")
	ErrSetupIncomplete      = errors.New("company setup has not been completed")
	ErrUnknownChecklistItem = errors.New("unknown checklist item")
	ErrChecklistNotFound    = errors.New("checklist not found")
	ErrOrganizationMissing  = errors.New("onboarding has no organization yet")
)

// PersistenceError wraps a storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("onboarding persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user.
func (e *PersistenceError) UserMessage() string {
	return "Failed to save progress. Please try again."
}

// ProvisionError means the organization could not be obtained or created.
// Finalize can be retried.
type ProvisionError struct {
	Err error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("failed to provision organization: %v", e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user.
func (e *ProvisionError) UserMessage() string {
	return "Failed to complete setup. Please try again."
}

// Retryable is always true.
func (e *ProvisionError) Retryable() bool { return true }

// WrapPersistence tags err as a PersistenceError for op. nil stays nil.
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

type userMessager interface {
	UserMessage() string
}

// UserMessage returns the sanitized text for an onboarding error.
func UserMessage(err error) string {
	var um userMessager
	switch {
	case err == nil:
		return ""
	case errors.As(err, &um):
		return um.UserMessage()
	case errors.Is(err, ErrStepNotSkippable):
		return "This step is required."
	case errors.Is(err, ErrSetupIncomplete):
		return "Please complete company setup first."
	default:
		return "An unexpected error occurred."
	}
}
