package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"smart-parking/internal/domain/tariff"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tariff:plans:"

// TariffPlanCache is a read-through Redis cache of a place's tariff plans.
// Entries are only evicted by TARIFF_CACHE_TTL, so tariff edits made directly in
// the database show up once the entry expires. Redis failures fall back to the
// wrapped source.
type TariffPlanCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewTariffPlanCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *TariffPlanCache {
	return &TariffPlanCache{client: client, ttl: ttl, logger: logger}
}

func Key(placeID uuid.UUID) string {
	return keyPrefix + placeID.String()
}

// Wrap returns a PlanSource that consults the cache before inner.
func (c *TariffPlanCache) Wrap(inner tariff.PlanSource) tariff.PlanSource {
	if c == nil || c.client == nil {
		return inner
	}
	return &cachedSource{cache: c, inner: inner}
}

type cachedSource struct {
	cache *TariffPlanCache
	inner tariff.PlanSource
}

func (s *cachedSource) PlansForPlace(ctx context.Context, placeID uuid.UUID) ([]tariff.Plan, error) {
	key := Key(placeID)

	raw, err := s.cache.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var plans []tariff.Plan
		if uerr := json.Unmarshal(raw, &plans); uerr == nil {
			return plans, nil
		}
		s.cache.logger.Warn("discarding unreadable tariff cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		s.cache.logger.Warn("tariff cache read failed", "key", key, "error", err.Error())
	}

	plans, err := s.inner.PlansForPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(plans)
	if err == nil {
		err = s.cache.client.Set(ctx, key, payload, s.cache.ttl).Err()
	}
	if err != nil {
		s.cache.logger.Warn("tariff cache write failed", "key", key, "error", err.Error())
	}
	return plans, nil
}
