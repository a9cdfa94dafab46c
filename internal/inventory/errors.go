package inventory

import "errors"

// Sentinel errors returned by the inventory core.  Callers match them
// with errors.Is; the returned error usually wraps one of these with
// the ids involved.
var (
	// ErrNotFound is returned when an id does not resolve, or resolves
	// to an entity outside the caller's scope.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed input such as negative
	// seat counts or an out-of-range year.
	ErrValidation = errors.New("validation failed")

	// ErrDeadlineExpired is returned when a booking is cancelled after
	// its cancellation deadline.
	ErrDeadlineExpired = errors.New("cancellation deadline has passed")

	// ErrConflict is returned when the current state does not allow the
	// operation, e.g. not enough free seats or a duplicate aircraft code.
	ErrConflict = errors.New("conflict")
)
