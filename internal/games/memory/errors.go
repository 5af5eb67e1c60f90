package memory

import "errors"

var (
	// ErrInvalidConfiguration rejects session settings before any state is built.
	ErrInvalidConfiguration = errors.New("memory: invalid configuration")

	// ErrInvariantViolation marks an internal contract breach. The operation
	// is aborted and no state is changed.
	ErrInvariantViolation = errors.New("memory: invariant violation")

	// ErrTurnInProgress rejects selections while a pair is being resolved.
	ErrTurnInProgress = errors.New("memory: turn in progress")

	// ErrAlreadyRevealed rejects selections of a face-up or matched cell.
	ErrAlreadyRevealed = errors.New("memory: cell already revealed")

	// ErrOutOfBounds rejects positions outside the grid.
	ErrOutOfBounds = errors.New("memory: position out of bounds")

	// ErrSessionOver rejects input after the session reached a terminal outcome.
	ErrSessionOver = errors.New("memory: session over")

	// ErrStoreUnavailable wraps score store failures. It is logged, never
	// shown to the player.
	ErrStoreUnavailable = errors.New("memory: score store unavailable")
)
