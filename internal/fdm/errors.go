package fdm

import "errors"

// Domain errors shared by the flight-dynamics packages.
var (
	// ErrTrimFailed indicates the trim solver could not find an acceptable
	// equilibrium; entity state is left unmodified.
	ErrTrimFailed = errors.New("fdm: trim solve failed")

	// ErrLineSearchFailed indicates the optimizer line search could not
	// find a step satisfying the Wolfe conditions.
	ErrLineSearchFailed = errors.New("fdm: line search failed")
)
