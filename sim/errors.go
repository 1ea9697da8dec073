package sim

import "errors"

var (
	// ErrInvalidParameter is returned before any event runs when a rate,
	// the batch size, the event count or the random source is unusable.
	ErrInvalidParameter = errors.New("invalid simulation parameter")

	// ErrInsufficientRunLength is returned when summary metrics are requested
	// for a run whose elapsed time or arrival count is zero.
	ErrInsufficientRunLength = errors.New("insufficient run length")
)
