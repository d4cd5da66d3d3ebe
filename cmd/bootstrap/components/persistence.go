package components

import (
	"fitting-scheduler/internal/infra/db"
	"fitting-scheduler/internal/infra/readstore"
	"fitting-scheduler/internal/infra/uow"
	"fitting-scheduler/internal/usecase/commands"
	"fitting-scheduler/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewExecutor,
		// UnitOfWork
		uow.NewPostgresUoW,
		// Read stores serving the query side; write repositories are
		// constructed per transaction inside the unit of work.
		fx.Annotate(
			readstore.NewSettingsReadStore,
			fx.As(new(queries.SettingsViewRepo)),
			fx.As(new(commands.OwnerDirectory)),
		),
		fx.Annotate(
			readstore.NewTemplateReadStore,
			fx.As(new(queries.TemplateViewRepo)),
		),
		fx.Annotate(
			readstore.NewSlotReadStore,
			fx.As(new(queries.SlotViewRepo)),
		),
		fx.Annotate(
			readstore.NewScheduleReadStore,
			fx.As(new(queries.ScheduleViewRepo)),
		),
	),
)

func NewExecutor(pool *pgxpool.Pool) db.Executor {
	return pool
}
