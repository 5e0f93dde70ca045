package grasp

import "errors"

var (
	// ErrInvalidInstance is returned when an item can never fit the plate,
	// making the instance unsatisfiable regardless of search effort.
	ErrInvalidInstance = errors.New("instance cannot be cut from the given plate")
	// ErrInvalidParameters is returned when the solver parameters are out of range.
	ErrInvalidParameters = errors.New("invalid solver parameters")
	// ErrInfeasible is returned when every construction trial failed to place
	// the full demand.
	ErrInfeasible = errors.New("no trial produced a complete cutting plan")

	// errConstructionInfeasible signals that a single trial got stuck: a fresh
	// plate came back empty while demand remained. The trial is discarded and
	// the search moves on; it only surfaces to callers as ErrInfeasible when
	// all trials fail.
	errConstructionInfeasible = errors.New("construction cannot place remaining demand")
)
