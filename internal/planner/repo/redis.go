package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/wayplan-core/server/internal/core/error"
	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// RedisTripStore persists finished trip plans in Redis with a TTL per entry.
type RedisTripStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisTripStore(rdb redis.Cmdable, ttl time.Duration) *RedisTripStore {
	return &RedisTripStore{rdb: rdb, ttl: ttl}
}

func (r *RedisTripStore) tripKey(tripID string) string {
	return fmt.Sprintf("trip:%s:plan", tripID)
}

func (r *RedisTripStore) Save(ctx context.Context, state *model.TripState) error {
	if state == nil || state.TripID == "" {
		return fmt.Errorf("trip state missing identifier")
	}
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("trip_id", state.TripID).Msg("failed to marshal trip state")
		return fmt.Errorf("marshal trip state: %w", err)
	}

	key := r.tripKey(state.TripID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to store trip state in redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisTripStore) Get(ctx context.Context, tripID string) (*model.TripState, error) {
	key := r.tripKey(tripID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTripNotFound
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load trip state from redis")
		return nil, errx.WrapRedis(err)
	}

	var state model.TripState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal trip state")
		return nil, fmt.Errorf("unmarshal trip state: %w", err)
	}
	return &state, nil
}
