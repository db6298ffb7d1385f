// Package remote implements the client side of the remote REST backends:
// a transport gateway that normalizes every network call, a loader that
// classifies response statuses into a small error taxonomy, and the typed
// cita/user API clients built on top of them.
package remote

import "errors"

// AccessDeniedError is returned when the backend rejects the caller's
// authorization (HTTP 403). Message carries the stringified response body.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// UnexpectedError covers every other non-success outcome, including
// transport-level failures surfaced by the gateway. Message carries the
// stringified response body.
type UnexpectedError struct {
	Message string
}

func (e *UnexpectedError) Error() string { return e.Message }

// IsAccessDenied reports whether err is an AccessDeniedError anywhere in
// its chain.
func IsAccessDenied(err error) bool {
	var ad *AccessDeniedError
	return errors.As(err, &ad)
}

// IsUnexpected reports whether err is an UnexpectedError anywhere in its
// chain.
func IsUnexpected(err error) bool {
	var ue *UnexpectedError
	return errors.As(err, &ue)
}
