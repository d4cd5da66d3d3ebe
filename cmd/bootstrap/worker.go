package bootstrap

import (
	"context"

	"fitting-scheduler/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewMaterializer,
	),
	fx.Invoke(startMaterializer),
)

func startMaterializer(lc fx.Lifecycle, m *worker.Materializer) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return m.Start()
		},
		OnStop: func(_ context.Context) error {
			m.Stop()
			return nil
		},
	})
}
