package bootstrap

import (
	"time"

	"smart-parking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewParkingLocation,
	),
)

// NewParkingLocation is the civil time zone bookings are classified in.
func NewParkingLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Parking.Location()
}
