package projection

import "errors"

// Sentinel kinds for provider signals.
var (
	// ErrNoSignal is returned by providers that have no data for a key.
	// The model treats it (and any other provider error) as a cue to
	// substitute the neutral multiplier.
	ErrNoSignal = errors.New("no signal for key")
)
