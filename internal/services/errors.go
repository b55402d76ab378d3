package services

import "errors"

var (
	// ErrInvalidTransition is returned when a requested occurrence state
	// change is not permitted by the state machine. Nothing is mutated.
	ErrInvalidTransition = errors.New("invalid session state transition")

	// ErrUnknownReasonCode is returned by Cancel before any mutation when
	// the reason code is not in the closed set.
	ErrUnknownReasonCode = errors.New("unknown cancellation reason code")

	// ErrDuplicateSequence is returned when full-sequence generation is
	// attempted for a class group that already has active slots. The whole
	// batch fails; nothing is written.
	ErrDuplicateSequence = errors.New("session sequence already generated for class group")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
