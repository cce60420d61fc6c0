package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/app"
	iauth "github.com/farmtrack/farmtrack/internal/auth"
	"github.com/farmtrack/farmtrack/internal/handlers"
	"github.com/farmtrack/farmtrack/internal/middleware"
	"github.com/farmtrack/farmtrack/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, alerts *services.InventoryAlertService, uploader handlers.ImageUploader) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health())
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	authHandler, err := handlers.NewAuthHandler(db, jwt)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	api.GET("/auth/me", authHandler.Me)

	animalHandler, err := handlers.NewAnimalHandler(db, uploader)
	if err != nil {
		return nil, err
	}
	registerAnimalRoutes(api, animalHandler)

	drugHandler, err := handlers.NewDrugHandler(db)
	if err != nil {
		return nil, err
	}
	registerDrugRoutes(api, drugHandler)

	treatmentHandler, err := handlers.NewTreatmentHandler(db)
	if err != nil {
		return nil, err
	}
	registerTreatmentRoutes(api, treatmentHandler)

	notificationHandler, err := handlers.NewNotificationHandler(db, alerts)
	if err != nil {
		return nil, err
	}
	registerNotificationRoutes(api, notificationHandler)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
