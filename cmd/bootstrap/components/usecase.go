package components

import (
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/pkg/config"
	"smart-parking/internal/usecase"
	"smart-parking/internal/usecase/commands"
	"smart-parking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func() booking.ReferenceGenerator {
		return booking.NewReference
	},
	func(cfg config.Config, loc *time.Location) commands.BookingSettings {
		return commands.BookingSettings{
			Location:    loc,
			PendingTTL:  cfg.Parking.PendingTTL,
			ExpiryBatch: cfg.Parking.ExpiryBatch,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
