package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/yigit/techfest/internal/app/controllers"
	"github.com/yigit/techfest/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	Health       *controllers.HealthController
}

// Options tunes optional routes
type Options struct {
	RegisterLimiter *limiter.Limiter
	MetricsPath     string       // Empty disables the metrics route
	MetricsHandler  http.Handler // Served on MetricsPath
	UploadsDir      string       // Served under /uploads when set
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, opts Options) {
	router.GET("/", c.Health.Banner)

	if opts.MetricsPath != "" && opts.MetricsHandler != nil {
		router.GET(opts.MetricsPath, gin.WrapH(opts.MetricsHandler))
	}
	if opts.UploadsDir != "" {
		router.Static("/uploads", opts.UploadsDir)
	}

	api := router.Group("/api")
	{
		api.GET("/health", c.Health.Health)

		events := api.Group("/events")
		{
			events.GET("", c.Event.ListEvents)
			events.GET("/:slug", c.Event.GetEvent)
		}

		register := api.Group("/register")
		if opts.RegisterLimiter != nil {
			register.Use(middleware.RateLimit(opts.RegisterLimiter))
		}
		register.POST("", c.Registration.Register)

		api.GET("/registrations/:slug", c.Registration.ListByEvent)
		api.GET("/registration/:id", c.Registration.GetRegistration)
	}

	router.NoRoute(middleware.NotFoundHandler)
}
