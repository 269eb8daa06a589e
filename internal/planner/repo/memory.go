package repo

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wayplan-core/server/internal/planner/model"
)

// MemoryTripStore keeps finished trip plans in process memory with TTL
// eviction, so an unbounded stream of runs cannot grow the store forever.
type MemoryTripStore struct {
	cache *gocache.Cache
}

// NewMemoryTripStore creates a store whose entries expire after ttl. A ttl of
// zero disables expiry.
func NewMemoryTripStore(ttl time.Duration) *MemoryTripStore {
	if ttl <= 0 {
		return &MemoryTripStore{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryTripStore{cache: gocache.New(ttl, 2*ttl)}
}

func (s *MemoryTripStore) Save(_ context.Context, state *model.TripState) error {
	if state == nil || state.TripID == "" {
		return fmt.Errorf("trip state missing identifier")
	}
	s.cache.Set(state.TripID, state, gocache.DefaultExpiration)
	return nil
}

func (s *MemoryTripStore) Get(_ context.Context, tripID string) (*model.TripState, error) {
	v, ok := s.cache.Get(tripID)
	if !ok {
		return nil, model.ErrTripNotFound
	}
	state, ok := v.(*model.TripState)
	if !ok {
		return nil, fmt.Errorf("unexpected store entry type %T", v)
	}
	return state, nil
}
