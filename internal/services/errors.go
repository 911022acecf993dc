package services

import (
	"errors"
	"fmt"
)

// Generic service errors, matched with errors.Is in the handlers.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")
)

// Domain errors.
var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrItemNotFound         = errors.New("checklist item not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrCatalogReadOnly      = errors.New("catalog is read-only in this deployment")
)

// PermissionError carries the denied action's context for logging while
// still matching ErrForbidden.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}
