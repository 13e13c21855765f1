package registration

import (
	"errors"
	"fmt"
)

// Error taxonomy of the registration core. Handlers map the roots (ErrNotFound,
// ErrInvalidTransition, ...) to HTTP status codes with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrMatchNotFound        = fmt.Errorf("match %w", ErrNotFound)
	ErrPlayerNotFound       = fmt.Errorf("player %w", ErrNotFound)
	ErrRegistrationNotFound = fmt.Errorf("registration %w", ErrNotFound)

	// ErrCapacityConflict means a capacity below the number of REGISTERED players was asked for.
	ErrCapacityConflict = errors.New("match capacity exceeded")

	ErrInvalidTransition = errors.New("invalid registration transition")
	ErrMatchCancelled    = fmt.Errorf("%w: match is cancelled", ErrInvalidTransition)
	ErrPlayerNotApproved = fmt.Errorf("%w: player is not approved", ErrInvalidTransition)
	ErrNotActive         = fmt.Errorf("%w: player is not registered or waiting", ErrInvalidTransition)

	// ErrDuplicateRegistration is a lost race on the (match, player) unique index.
	ErrDuplicateRegistration = errors.New("registration already exists")

	ErrPositionUnavailable = errors.New("position unavailable")
	ErrInvalidInput        = errors.New("invalid input")
)
