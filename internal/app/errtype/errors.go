package errtype

import "errors"

var (
	// ErrNotFound represents the error for the cases when some entity is not found.
	ErrNotFound = errors.New("not found")
	// ErrBadInput represents the error for the cases when the user input is invalid.
	ErrBadInput = errors.New("bad input")
	// ErrUnauthorized represents the error for the cases when the calling context lacks rights over the target.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAuthorizationFailure represents the error for the cases when the identity collaborator refuses delegation.
	ErrAuthorizationFailure = errors.New("authorization failure")
	// ErrDispatchUnavailable represents the error for the cases when the transport to a backend is unreachable.
	ErrDispatchUnavailable = errors.New("dispatch unavailable")
	// ErrConflict represents the error for the cases when the record changed since the last read.
	ErrConflict = errors.New("record conflict")
)
