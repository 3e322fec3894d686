//go:build e2e

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
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type countingSource struct {
	plans []tariff.Plan
	calls int
}

func (s *countingSource) PlansForPlace(_ context.Context, _ uuid.UUID) ([]tariff.Plan, error) {
	s.calls++
	return s.plans, nil
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	addr, err := c.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTariffPlanCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	client := startRedis(t)

	placeID := uuid.New()
	until := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	day := tariff.Weekend
	start := tariff.TimeOfDay(8 * 60)
	end := tariff.TimeOfDay(20 * 60)
	dayRate := int64(40000)
	inner := &countingSource{plans: []tariff.Plan{{
		ID:             uuid.New(),
		PlaceID:        placeID,
		Name:           "Weekend",
		EffectiveFrom:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		EffectiveUntil: &until,
		IsActive:       true,
		Rates: []tariff.Rate{{
			ID:            uuid.New(),
			VehicleType:   "car",
			SlotType:      "regular",
			DayCategory:   &day,
			StartTime:     &start,
			EndTime:       &end,
			HourlyRate:    3000,
			DayRate:       &dayRate,
			MinimumCharge: 5000,
		}},
	}}}

	c := cache.NewTariffPlanCache(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	source := c.Wrap(inner)

	first, err := source.PlansForPlace(ctx, placeID)
	require.NoError(t, err)
	second, err := source.PlansForPlace(ctx, placeID)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)

	ttl, err := client.TTL(ctx, cache.Key(placeID)).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	require.NoError(t, client.Del(ctx, cache.Key(placeID)).Err())
	_, err = source.PlansForPlace(ctx, placeID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
