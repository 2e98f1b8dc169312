package services

import "errors"

// Domain failures surfaced to the handlers. The handlers translate these to
// status codes and the API's message strings.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	ErrBikeNotFound    = errors.New("bike not found")
	ErrBikeUnavailable = errors.New("bike not available")
	ErrActiveRental    = errors.New("user has active rental")
	ErrTooFarFromBike  = errors.New("too far from bike")

	// ErrInvalidRental covers both a missing rental and one owned by another
	// user, so the response leaks nothing about other riders' rentals.
	ErrInvalidRental = errors.New("invalid rental")
	ErrRentalEnded   = errors.New("rental already ended")

	// ErrInvalidRide is the scheduled-ride equivalent of ErrInvalidRental.
	ErrInvalidRide = errors.New("invalid ride")
)
