package vehicle

import (
	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrVehicleNotFound = errs.NewKind("vehicle not found", errs.ErrKindNotFound)

type Vehicle struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	LicensePlate string
	VehicleType  string
	IsActive     bool
}

func (v Vehicle) OwnedBy(userID uuid.UUID) bool {
	return v.UserID == userID
}
