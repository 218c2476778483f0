// Package status publishes check lifecycle states to Redis so external pollers
// can follow a check without touching the engine.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	redisInfra "github.com/scribeworks/veritas/internal/infra/redis"
	"github.com/scribeworks/veritas/internal/models"
)

const keyPrefix = "similarity_check_status:"

type Tracker struct {
	client *redisInfra.Client
	ttl    time.Duration
}

func NewTracker(client *redisInfra.Client, ttl time.Duration) *Tracker {
	return &Tracker{client: client, ttl: ttl}
}

// Update records a state transition. FAILED and COMPLETED are terminal; a
// transition out of a terminal state is rejected here rather than silently
// overwritten.
func (t *Tracker) Update(ctx context.Context, checkID string, state models.CheckState) error {
	switch state {
	case models.StatePending, models.StateScanning, models.StateCompleted, models.StateFailed:
	default:
		return fmt.Errorf("unknown check state: %s", state)
	}

	key := keyPrefix + checkID

	current, err := t.client.Get(ctx, key).Result()
	if err == nil && models.CheckState(current).Terminal() {
		return fmt.Errorf("check %s already in terminal state %s", checkID, current)
	}

	if err := t.client.Set(ctx, key, string(state), t.ttl).Err(); err != nil {
		log.Error().Err(err).
			Str("checkId", checkID).
			Str("state", string(state)).
			Msg("Failed to update check state in Redis")
		return fmt.Errorf("failed to update check state: %w", err)
	}

	log.Trace().
		Str("checkId", checkID).
		Str("state", string(state)).
		Msg("Check state updated")

	return nil
}

// Get returns the last published state, or StatePending when none exists.
func (t *Tracker) Get(ctx context.Context, checkID string) (models.CheckState, error) {
	val, err := t.client.Get(ctx, keyPrefix+checkID).Result()
	if err != nil {
		return models.StatePending, fmt.Errorf("failed to read check state: %w", err)
	}
	return models.CheckState(val), nil
}
