package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fitting-scheduler/internal/domain/user"
	"fitting-scheduler/internal/handler/api"
	"fitting-scheduler/internal/handler/middleware"
	"fitting-scheduler/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, ownerHandler *api.OwnerHandler, slotHandler *api.SlotHandler, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, ownerHandler, slotHandler, bookingHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, ownerHandler *api.OwnerHandler, slotHandler *api.SlotHandler, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		owners := apiGroup.Group("/owners/:id")
		owners.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleOwner, user.RoleAdmin))
		{
			addRoutes(owners, []route{
				{Method: http.MethodPost, Path: "/settings", Handler: ownerHandler.UpsertSettings},
				{Method: http.MethodGet, Path: "/settings", Handler: ownerHandler.GetSettings},
				{Method: http.MethodPost, Path: "/templates", Handler: ownerHandler.CreateTemplate},
				{Method: http.MethodGet, Path: "/templates", Handler: ownerHandler.ListTemplates},
				{Method: http.MethodPost, Path: "/materialize", Handler: ownerHandler.Materialize},
				{Method: http.MethodPost, Path: "/slots", Handler: ownerHandler.CreateSlot},
			})
		}

		templates := apiGroup.Group("/templates")
		templates.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleOwner, user.RoleAdmin))
		{
			addRoutes(templates, []route{
				{Method: http.MethodPut, Path: "/:id", Handler: ownerHandler.UpdateTemplate},
				{Method: http.MethodDelete, Path: "/:id", Handler: ownerHandler.DeleteTemplate},
			})
		}

		slots := apiGroup.Group("/slots")
		{
			addRoutes(slots, []route{
				{Method: http.MethodGet, Path: "", Handler: slotHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: slotHandler.Get},
			})

			slotsWrite := slots.Group("")
			slotsWrite.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleOwner, user.RoleAdmin))
			addRoutes(slotsWrite, []route{
				{Method: http.MethodPut, Path: "/:id", Handler: slotHandler.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: slotHandler.Delete},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.Reserve, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleCustomer)}},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.Get},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: bookingHandler.ChangeStatus},
				{Method: http.MethodPost, Path: "/:id/reschedule", Handler: bookingHandler.Reschedule},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
