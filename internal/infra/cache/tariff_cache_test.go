//go:build unit

package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/infra/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	plans []tariff.Plan
	calls int
}

func (s *countingSource) PlansForPlace(_ context.Context, _ uuid.UUID) ([]tariff.Plan, error) {
	s.calls++
	return s.plans, nil
}

func TestTariffPlanCache_Wrap(t *testing.T) {
	inner := &countingSource{}

	t.Run("nil cache returns the source unchanged", func(t *testing.T) {
		var c *cache.TariffPlanCache
		assert.Same(t, inner, c.Wrap(inner))
	})

	t.Run("cache without client returns the source unchanged", func(t *testing.T) {
		c := cache.NewTariffPlanCache(nil, time.Minute, slog.Default())
		assert.Same(t, inner, c.Wrap(inner))
	})
}

func TestTariffPlanCache_FallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	placeID := uuid.New()
	inner := &countingSource{plans: []tariff.Plan{{ID: uuid.New(), PlaceID: placeID, Name: "Standard", IsActive: true}}}
	source := cache.NewTariffPlanCache(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil))).Wrap(inner)

	plans, err := source.PlansForPlace(context.Background(), placeID)
	require.NoError(t, err)
	assert.Equal(t, inner.plans, plans)
	assert.Equal(t, 1, inner.calls)
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("2f1b6f52-8a43-4c0e-9b1e-4a3f4bb4c001")
	assert.Equal(t, "tariff:plans:2f1b6f52-8a43-4c0e-9b1e-4a3f4bb4c001", cache.Key(id))
}
