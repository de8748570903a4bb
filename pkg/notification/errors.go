package notification

import "errors"

var (
	// ErrUserNotFound is returned when a user has no notification log.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotificationNotFound is returned when an ID is absent from the
	// retained (capped) set. An evicted notification is unreachable by ID
	// even though it was validly created.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrUnknownKind is returned for a kind outside the closed enumeration.
	ErrUnknownKind = errors.New("unknown notification kind")
	// ErrMissingTargetEmail is returned when a kind routes to the email sink
	// but the event carries no recipient address.
	ErrMissingTargetEmail = errors.New("missing target email")
	// ErrStorageFailure wraps backend failures so callers can treat them as
	// a single category without knowing the backend.
	ErrStorageFailure = errors.New("notification storage failure")
)
