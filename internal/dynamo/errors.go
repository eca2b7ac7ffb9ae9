package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a run configuration rejected before integration.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")

	// ErrInvalidInertia indicates a non-positive or non-finite principal inertia.
	ErrInvalidInertia = errors.New("dynamo: inertia tensor must be positive diagonal")

	// ErrZeroVector indicates a vector that must be non-zero has zero length.
	ErrZeroVector = errors.New("dynamo: zero-length vector")

	// ErrDegenerateFrame indicates a frame transform whose basis is undefined.
	ErrDegenerateFrame = errors.New("dynamo: degenerate reference frame")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrStepBudget indicates the solver exhausted its step budget for a span.
	ErrStepBudget = errors.New("dynamo: solver step budget exhausted")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Segment int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("segment %d (t=%.3f): %v", e.Segment, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
