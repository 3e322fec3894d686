//go:build unit || e2e

package builder

import (
	"time"

	"smart-parking/internal/domain/slot"
	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/domain/vehicle"
	reqdto "smart-parking/internal/handler/dto/request"
	"smart-parking/tests/common/memuow"

	"github.com/google/uuid"
)

// ParkingFixture is one place with a free regular slot, a car owned by UserID
// and a plan charging 5000 for the first hour and 2000 for each further hour.
type ParkingFixture struct {
	UserID  uuid.UUID
	PlaceID uuid.UUID
	Slot    slot.Slot
	Vehicle vehicle.Vehicle
	Plan    tariff.Plan
	Entry   time.Time
}

func NewParkingFixture() *ParkingFixture {
	userID := uuid.New()
	placeID := uuid.New()
	planID := uuid.New()

	return &ParkingFixture{
		UserID:  userID,
		PlaceID: placeID,
		Slot: slot.Slot{
			ID:       uuid.New(),
			ZoneID:   uuid.New(),
			PlaceID:  placeID,
			Number:   "A-01",
			SlotType: "regular",
			IsActive: true,
		},
		Vehicle: vehicle.Vehicle{
			ID:           uuid.New(),
			UserID:       userID,
			LicensePlate: "B 1234 XYZ",
			VehicleType:  "car",
			IsActive:     true,
		},
		Plan: tariff.Plan{
			ID:            planID,
			PlaceID:       placeID,
			Name:          "Standard",
			EffectiveFrom: time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC),
			IsActive:      true,
			Rates: []tariff.Rate{{
				ID:            uuid.New(),
				PlanID:        planID,
				VehicleType:   "car",
				SlotType:      "regular",
				HourlyRate:    2000,
				MinimumCharge: 5000,
			}},
		},
		Entry: time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func (f *ParkingFixture) With(mutate func(*ParkingFixture)) *ParkingFixture {
	mutate(f)
	return f
}

func (f *ParkingFixture) Seed(s *memuow.Store) {
	s.PutSlot(f.Slot)
	s.PutVehicle(f.Vehicle)
	s.PutPlan(f.Plan)
}

// Request asks for the fixture slot from Entry for d.
func (f *ParkingFixture) Request(d time.Duration) reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		VehicleID:      f.Vehicle.ID,
		SlotID:         f.Slot.ID,
		PlaceID:        f.PlaceID,
		ScheduledEntry: f.Entry,
		ScheduledExit:  f.Entry.Add(d),
	}
}
