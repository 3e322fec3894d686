package repository

import (
	"context"

	"smart-parking/internal/domain/vehicle"
	"smart-parking/internal/infra"
	"smart-parking/internal/infra/db"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type VehicleRepository struct {
	db db.DBTX
}

func NewVehicleRepository(db db.DBTX) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// FindOwned only returns active vehicles belonging to userID.
func (r *VehicleRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*vehicle.Vehicle, error) {
	query, args, err := psql.Select("id", "user_id", "license_plate", "vehicle_type", "is_active").
		From("vehicles").
		Where(squirrel.Eq{"id": id, "user_id": userID, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select vehicle query", err)
	}

	var v vehicle.Vehicle
	if err := r.db.QueryRow(ctx, query, args...).Scan(&v.ID, &v.UserID, &v.LicensePlate, &v.VehicleType, &v.IsActive); err != nil {
		return nil, infra.WrapRepoErr("failed to select vehicle", err)
	}
	return &v, nil
}
