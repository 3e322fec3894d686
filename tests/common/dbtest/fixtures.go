//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"smart-parking/internal/domain/promo"
	"smart-parking/tests/common/builder"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// SeedParking inserts the place, zone, slot, vehicle and tariff plan of f.
func SeedParking(t *testing.T, db DBLike, f *builder.ParkingFixture) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO places (id, name, address) VALUES ($1, $2, $3)",
		f.PlaceID, "Central Mall", "Jl. Sudirman 1")
	require.NoError(t, err)

	_, err = db.Exec(ctx, "INSERT INTO parking_zones (id, place_id, name) VALUES ($1, $2, $3)",
		f.Slot.ZoneID, f.PlaceID, "Level 1")
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO parking_slots
		(id, zone_id, slot_number, slot_type, is_reserved, is_occupied, is_active, is_disabled_friendly, has_ev_charger)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.Slot.ID, f.Slot.ZoneID, f.Slot.Number, f.Slot.SlotType, f.Slot.IsReserved, f.Slot.IsOccupied,
		f.Slot.IsActive, f.Slot.IsDisabledFriendly, f.Slot.HasEVCharger)
	require.NoError(t, err)

	_, err = db.Exec(ctx, "INSERT INTO vehicles (id, user_id, license_plate, vehicle_type, is_active) VALUES ($1, $2, $3, $4, $5)",
		f.Vehicle.ID, f.Vehicle.UserID, f.Vehicle.LicensePlate, f.Vehicle.VehicleType, f.Vehicle.IsActive)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO tariff_plans (id, place_id, plan_name, effective_from, effective_until, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.Plan.ID, f.PlaceID, f.Plan.Name, f.Plan.EffectiveFrom, f.Plan.EffectiveUntil, f.Plan.IsActive)
	require.NoError(t, err)

	for i, r := range f.Plan.Rates {
		_, err = db.Exec(ctx, `INSERT INTO tariff_rates
			(id, tariff_plan_id, sort_order, vehicle_type, slot_type, base_price, hourly_rate, day_rate, minimum_charge, grace_period_minutes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			r.ID, f.Plan.ID, i, r.VehicleType, r.SlotType, r.BasePrice, r.HourlyRate, r.DayRate, r.MinimumCharge, r.GracePeriodMinutes)
		require.NoError(t, err)
	}
}

// SeedPromo inserts p with a unique code derived from its id.
func SeedPromo(t *testing.T, db DBLike, p promo.PromoCode) {
	t.Helper()

	_, err := db.Exec(context.Background(), `INSERT INTO promo_codes
		(id, code, discount_type, discount_value, minimum_spend, valid_from, valid_until, usage_limit, usage_count, is_active)
		VALUES ($1, $2, $3, $4::numeric / 100, $5, $6, $7, $8, $9, $10)`,
		p.ID, "PROMO-"+p.ID.String()[:8], string(p.DiscountType), p.DiscountHundredths, p.MinimumSpend,
		p.ValidFrom, p.ValidUntil, p.UsageLimit, p.UsageCount, p.IsActive)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every application table, leaving the migration history intact.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
