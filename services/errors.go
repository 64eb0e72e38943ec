package services

import "errors"

// Shared errors used across services and mapped to HTTP in handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrAlreadyInQueue    = errors.New("player is already in the waiting queue for this event")

	// Events
	ErrEventNotFound           = errors.New("event not found")
	ErrEventNotActive          = errors.New("event is not active")
	ErrEventInvalidCourtCount  = errors.New("event court count must be positive")
	ErrEventInvalidTeamSize    = errors.New("event team size must be between 1 and 4")
	ErrEventInvalidRotation    = errors.New("invalid rotation type")
	ErrEventInvalidDateRange   = errors.New("event end time must be after start time")
	ErrEventAdmissionDenied    = errors.New("player is not admitted to this event")
	ErrGroupSizeInvalid        = errors.New("group size must be between 1 and 4")

	// Queue / game flow. These are soft "not yet" outcomes surfaced as
	// friendly messages, not faults.
	ErrUserNotFound        = errors.New("user not found")
	ErrNotInQueue          = errors.New("player has no waiting queue entry for this event")
	ErrNoAvailableCourt    = errors.New("no available courts")
	ErrInsufficientPlayers = errors.New("not enough players waiting to fill a court")
	ErrGameAlreadyEnded    = errors.New("game has already been completed")
	ErrAssignmentNotFound  = errors.New("court assignment not found")
)
