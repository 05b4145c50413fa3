package errors

import "errors"

var (
	ErrUnauthorized     = errors.New("principal is not the registry admin")
	ErrUnknownRole      = errors.New("unknown role")
	ErrUnknownBinding   = errors.New("no role bound for target function")
	ErrInvalidPrincipal = errors.New("invalid principal")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrInvalidSelector  = errors.New("invalid selector")
	ErrInvalidDelay     = errors.New("activation delay must not be negative")
	ErrEmptySelectors   = errors.New("selector list must not be empty")
)
