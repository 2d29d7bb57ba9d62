package apperr

import (
	"errors"
	"net/http"
)

// Failure conditions surfaced by the journey tracker. Everything here is
// user-recoverable: the state machine stays in its last valid state and
// the operation can be retried.
var (
	// Location capture
	ErrLocationUnavailable = errors.New("location unavailable")

	// Validation
	ErrOTPTooShort        = errors.New("enter the 4-digit code")
	ErrOTPIncorrect       = errors.New("incorrect code")
	ErrOTPNotIssued       = errors.New("no code issued for waypoint")
	ErrMissingTargets     = errors.New("all waypoints need a location before starting")
	ErrEndpointsUnset     = errors.New("set departure and arrival first")
	ErrUnverifiedRemain   = errors.New("unverified waypoints remain")
	ErrWaypointNotFound   = errors.New("waypoint not found")
	ErrWaypointVerified   = errors.New("waypoint already verified")
	ErrEndpointImmutable  = errors.New("endpoint targets are set from search, not capture")
	ErrJourneyStarted     = errors.New("journey already started")
	ErrJourneyNotStarted  = errors.New("journey not started")
	ErrJourneyCompleted   = errors.New("journey already completed")
	ErrTargetUnset        = errors.New("set waypoint location before adjusting radius")
	ErrSearchUnavailable  = errors.New("location search unavailable")
)

// HTTPStatus maps a tracker error to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrWaypointNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrLocationUnavailable),
		errors.Is(err, ErrSearchUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, ErrJourneyStarted),
		errors.Is(err, ErrJourneyCompleted),
		errors.Is(err, ErrJourneyNotStarted),
		errors.Is(err, ErrWaypointVerified):
		return http.StatusConflict

	case errors.Is(err, ErrOTPTooShort),
		errors.Is(err, ErrOTPIncorrect),
		errors.Is(err, ErrOTPNotIssued),
		errors.Is(err, ErrMissingTargets),
		errors.Is(err, ErrEndpointsUnset),
		errors.Is(err, ErrUnverifiedRemain),
		errors.Is(err, ErrTargetUnset),
		errors.Is(err, ErrEndpointImmutable):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
