package entity

import "errors"

// Domain error taxonomy. Handlers map these to HTTP statuses:
// ErrValidation -> 400, ErrNotOwner -> 403, ErrNotFound -> 404.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrNotOwner   = errors.New("resource not owned by caller")
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate unread notification")
)
