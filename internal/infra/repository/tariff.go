package repository

import (
	"context"

	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/infra"
	"smart-parking/internal/infra/db"
	"smart-parking/internal/infra/repository/converter"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type TariffRepository struct {
	db db.DBTX
}

func NewTariffRepository(db db.DBTX) *TariffRepository {
	return &TariffRepository{db: db}
}

// PlansForPlace loads all plans of a place, active or not, with rates in sort order.
func (r *TariffRepository) PlansForPlace(ctx context.Context, placeID uuid.UUID) ([]tariff.Plan, error) {
	planRows, err := r.plans(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if len(planRows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(planRows))
	for i, p := range planRows {
		ids[i] = p.ID
	}
	rates, err := r.rates(ctx, ids)
	if err != nil {
		return nil, err
	}

	plans := make([]tariff.Plan, len(planRows))
	for i, p := range planRows {
		plans[i] = converter.PlanToDomain(p, rates[p.ID])
	}
	return plans, nil
}

func (r *TariffRepository) plans(ctx context.Context, placeID uuid.UUID) ([]converter.PlanRow, error) {
	query, args, err := psql.Select("id", "place_id", "plan_name", "effective_from", "effective_until", "is_active").
		From("tariff_plans").
		Where(squirrel.Eq{"place_id": placeID}).
		OrderBy("effective_from DESC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select plans query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select tariff plans", err)
	}
	defer rows.Close()

	var out []converter.PlanRow
	for rows.Next() {
		var p converter.PlanRow
		if err := rows.Scan(&p.ID, &p.PlaceID, &p.Name, &p.EffectiveFrom, &p.EffectiveUntil, &p.IsActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tariff plan", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tariff plans", err)
	}
	return out, nil
}

func (r *TariffRepository) rates(ctx context.Context, planIDs []uuid.UUID) (map[uuid.UUID][]tariff.Rate, error) {
	query, args, err := psql.Select(
		"id", "tariff_plan_id", "vehicle_type", "slot_type", "day_category", "start_time", "end_time",
		"base_price", "hourly_rate", "day_rate", "minimum_charge", "grace_period_minutes",
	).
		From("tariff_rates").
		Where(squirrel.Eq{"tariff_plan_id": planIDs}).
		OrderBy("tariff_plan_id", "sort_order", "id").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select rates query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select tariff rates", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]tariff.Rate, len(planIDs))
	for rows.Next() {
		var rr converter.RateRow
		if err := rows.Scan(
			&rr.ID, &rr.PlanID, &rr.VehicleType, &rr.SlotType, &rr.DayCategory, &rr.StartTime, &rr.EndTime,
			&rr.BasePrice, &rr.HourlyRate, &rr.DayRate, &rr.MinimumCharge, &rr.GracePeriodMinutes,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tariff rate", err)
		}
		out[rr.PlanID] = append(out[rr.PlanID], converter.RateToDomain(rr))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tariff rates", err)
	}
	return out, nil
}
