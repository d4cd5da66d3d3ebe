package components

import (
	"fitting-scheduler/internal/pkg/clock"
	"fitting-scheduler/internal/usecase"
	"fitting-scheduler/internal/usecase/commands"
	"fitting-scheduler/internal/usecase/queries"

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
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSettingsUseCase,
		commands.NewTemplateUseCase,
		commands.NewMaterializeUseCase,
		commands.NewSlotUseCase,
		commands.NewBookingUseCase,
		commands.NewScheduleUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOwnerQueries,
		queries.NewSlotQueries,
		queries.NewScheduleQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
