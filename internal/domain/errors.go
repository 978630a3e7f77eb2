package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ForbiddenError represents an authenticated actor lacking authorization.
type ForbiddenError struct {
	Reason string
}

func (e ForbiddenError) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return e.Reason
}

func (e ForbiddenError) Is(target error) bool {
	_, ok := target.(ForbiddenError)
	if ok {
		return true
	}
	_, ok = target.(*ForbiddenError)
	return ok
}

// InvalidError represents malformed or missing input.
type InvalidError struct {
	Reason string
}

func (e InvalidError) Error() string {
	if e.Reason == "" {
		return "invalid input"
	}
	return e.Reason
}

func (e InvalidError) Is(target error) bool {
	_, ok := target.(InvalidError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidError)
	return ok
}

// ConflictError represents a stale-state transition or duplicate.
type ConflictError struct {
	Reason string
}

func (e ConflictError) Error() string {
	if e.Reason == "" {
		return "conflict"
	}
	return e.Reason
}

func (e ConflictError) Is(target error) bool {
	_, ok := target.(ConflictError)
	if ok {
		return true
	}
	_, ok = target.(*ConflictError)
	return ok
}

// ExpiredTokenError represents an invitation past its expiry.
type ExpiredTokenError struct{}

func (e ExpiredTokenError) Error() string {
	return "invitation has expired"
}

func (e ExpiredTokenError) Is(target error) bool {
	_, ok := target.(ExpiredTokenError)
	if ok {
		return true
	}
	_, ok = target.(*ExpiredTokenError)
	return ok
}

// UpstreamError represents a collaborator failure on a critical path
// (blob store, mail gateway when surfaced).
type UpstreamError struct {
	Op  string
	Err error
}

func (e UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e UpstreamError) Unwrap() error {
	return e.Err
}

func (e UpstreamError) Is(target error) bool {
	_, ok := target.(UpstreamError)
	if ok {
		return true
	}
	_, ok = target.(*UpstreamError)
	return ok
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound     = NotFoundError{}
	ErrForbidden    = ForbiddenError{}
	ErrInvalid      = InvalidError{}
	ErrConflict     = ConflictError{}
	ErrExpiredToken = ExpiredTokenError{}
	ErrUpstream     = UpstreamError{}
)
