package components

import (
	"fitting-scheduler/internal/handler"
	"fitting-scheduler/internal/handler/api"
	"fitting-scheduler/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOwnerHandler,
		api.NewSlotHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
