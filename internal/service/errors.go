package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrLocked            = errors.New("revision is locked")
	ErrNotLocked         = errors.New("revision is not locked")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConstraint        = errors.New("constraint violation")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPermissionDenied  = errors.New("permission denied")
)
