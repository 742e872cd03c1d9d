package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/Steerify/Suretruqs-sub000/internal/handler"
	"github.com/Steerify/Suretruqs-sub000/internal/middleware"
	"github.com/Steerify/Suretruqs-sub000/internal/session"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ShipmentHandler     *handler.ShipmentHandler
	DriverHandler       *handler.DriverHandler
	ChatHandler         *handler.ChatHandler
	NotificationHandler *handler.NotificationHandler
	PositionHandler     *handler.PositionHandler
	PreferenceHandler   *handler.PreferenceHandler
	SessionHandler      *handler.SessionHandler
	Bootstrapper        *session.Bootstrapper
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Session routes stay reachable during bootstrap so callers can
	// watch the initializing flag and log in.
	sessionRoutes := router.Group("/v1/session")
	{
		sessionRoutes.GET("", deps.SessionHandler.Status)
		sessionRoutes.POST("/login", deps.SessionHandler.Login)
		sessionRoutes.POST("/logout", deps.SessionHandler.Logout)
	}

	// API v1 routes, gated until the bootstrap settles.
	v1 := router.Group("/v1")
	v1.Use(middleware.BootstrapGate(deps.Bootstrapper))
	{
		// Shipment routes.
		shipments := v1.Group("/shipments")
		{
			shipments.GET("", deps.ShipmentHandler.GetAll)
			shipments.POST("", deps.ShipmentHandler.Create)
			shipments.GET("/:id", deps.ShipmentHandler.Get)
			shipments.PATCH("/:id", deps.ShipmentHandler.Patch)
			shipments.DELETE("/:id", deps.ShipmentHandler.Delete)
			shipments.POST("/:id/advance", deps.ShipmentHandler.Advance)
			shipments.POST("/:id/cancel", deps.ShipmentHandler.Cancel)
			shipments.POST("/:id/issue", deps.ShipmentHandler.ReportIssue)
			shipments.POST("/:id/assign", deps.ShipmentHandler.AssignDriver)
			shipments.POST("/:id/respond", deps.ShipmentHandler.RespondAssignment)
			shipments.POST("/:id/rate", deps.ShipmentHandler.Rate)
			shipments.GET("/:id/chat", deps.ChatHandler.GetThread)
			shipments.POST("/:id/chat", deps.ChatHandler.Send)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.POST("/location", deps.DriverHandler.PublishLocation)
		}

		// Notification routes.
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", deps.NotificationHandler.GetAll)
			notifications.GET("/admin", deps.NotificationHandler.GetAdmin)
			notifications.POST("/read-all", deps.NotificationHandler.MarkAllRead)
			notifications.POST("/:id/read", deps.NotificationHandler.MarkRead)
		}

		// Live position routes.
		positions := v1.Group("/positions")
		{
			positions.GET("", deps.PositionHandler.GetAll)
			positions.GET("/stream", deps.PositionHandler.Stream)
		}

		// Preference routes.
		v1.GET("/locations", deps.PreferenceHandler.GetSavedLocations)
		v1.GET("/settings", deps.PreferenceHandler.GetSettings)
		v1.PUT("/settings", deps.PreferenceHandler.UpdateSettings)
	}

	return router
}
