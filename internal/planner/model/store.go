package model

import (
	"context"
	"errors"
)

// ErrTripNotFound is returned by TripStore.Get for unknown run identifiers.
var ErrTripNotFound = errors.New("trip plan not found")

// TripStore persists finished trip states keyed by run identifier. A state is
// written exactly once, when its run reaches the terminal stage, and is never
// mutated afterwards.
type TripStore interface {
	// Save stores the final state under its trip identifier.
	Save(ctx context.Context, state *TripState) error

	// Get retrieves a stored state, or ErrTripNotFound for unknown identifiers.
	Get(ctx context.Context, tripID string) (*TripState, error)
}
