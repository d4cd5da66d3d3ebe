package bootstrap

import (
	"context"

	"fitting-scheduler/internal/notify"
	"fitting-scheduler/internal/pkg/config"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewDispatcher,
	),
)

func NewDispatcher(lc fx.Lifecycle, cfg config.Config) (notify.Dispatcher, error) {
	dispatcher, cleanup, err := notify.NewDispatcher(cfg.Notifier)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return dispatcher, nil
}
