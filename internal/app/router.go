package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/handler"
	"carpool/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	UserHandler    *handler.UserHandler
	VehicleHandler *handler.VehicleHandler
	JWTSecret      string
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", "Accept", "Origin", "Idempotency-Key"},
		MaxAge:          12 * time.Hour,
	}))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.Auth([]byte(deps.JWTSecret))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Auth routes.
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", deps.UserHandler.Register)
			authRoutes.POST("/login", deps.UserHandler.Login)
		}

		// Trip routes. Listing and details are public; everything that
		// mutates or is scoped to the caller requires a token.
		trips := v1.Group("/trips")
		{
			trips.GET("", deps.TripHandler.ListAvailable)
			trips.POST("", auth, deps.TripHandler.Create)
			trips.GET("/driver", auth, deps.TripHandler.ListByDriver)
			trips.GET("/reservations", auth, deps.TripHandler.ListReservations)
			trips.GET("/:id", deps.TripHandler.GetDetails)
			trips.PUT("/:id", auth, deps.TripHandler.Edit)
			trips.DELETE("/:id", auth, deps.TripHandler.Delete)
			trips.POST("/:id/reservations", auth, deps.TripHandler.Reserve)
			trips.PUT("/:id/reservations", auth, deps.TripHandler.Amend)
			trips.DELETE("/:id/reservations", auth, deps.TripHandler.Cancel)
		}

		// Vehicle routes.
		vehicles := v1.Group("/vehicles", auth)
		{
			vehicles.POST("", deps.VehicleHandler.Add)
			vehicles.GET("", deps.VehicleHandler.Get)
		}
	}

	return router
}
