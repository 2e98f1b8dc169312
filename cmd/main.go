package main

import (
	"context"
	"fmt"
	"log"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"pedalgo/internal/analytics"
	"pedalgo/internal/caching"
	"pedalgo/internal/config"
	"pedalgo/internal/handlers"
	"pedalgo/internal/jobs/background"
	"pedalgo/internal/middleware"
	"pedalgo/internal/repositories"
	"pedalgo/internal/services"
	"pedalgo/internal/storage"
	"pedalgo/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Cache
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Report snapshot archive (optional)
	var archive storage.ReportArchive
	if cfg.MinioEndpoint != "" {
		archive, err = storage.NewMinioReportArchive(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("Failed to initialize report archive: %v", err)
		}
		if err := archive.EnsureBucketExists(context.Background()); err != nil {
			log.Printf("WARN: report archive bucket check failed: %v", err)
		}
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	bikeRepo := repositories.NewBikeRepo(pool)
	rentalRepo := repositories.NewRentalRepo(pool)
	rideRepo := repositories.NewScheduledRideRepo(pool)

	// Services
	accountSvc := services.NewAccountService(userRepo, cacheSvc)
	fleetSvc := services.NewFleetService(bikeRepo, cacheSvc)
	rentalSvc := services.NewRentalService(rentalRepo, bikeRepo, cacheSvc)
	rideSvc := services.NewRideService(rideRepo)
	analyticsSvc := analytics.NewAnalyticsService(userRepo, rentalRepo, cacheSvc)

	if err := fleetSvc.SeedDemoFleet(context.Background()); err != nil {
		log.Printf("WARN: demo fleet seed failed: %v", err)
	}
	if err := fleetSvc.RebuildLocationIndex(context.Background()); err != nil {
		log.Printf("WARN: bike location index build failed: %v", err)
	}

	// Handlers
	authHandlers := handlers.NewAuthHandlers(accountSvc, []byte(jwtSecret))
	profileHandlers := handlers.NewProfileHandlers(accountSvc)
	bikeHandlers := handlers.NewBikeHandlers(fleetSvc)
	rentalHandlers := handlers.NewRentalHandlers(rentalSvc)
	rideHandlers := handlers.NewRideHandlers(rideSvc)
	exportHandlers := handlers.NewExportHandlers(analyticsSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(analyticsSvc, fleetSvc, rentalRepo, archive)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := echo.New()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	api := e.Group("/api")

	loginLimiter := middleware.RateLimit(cacheSvc, 10, time.Minute)
	api.POST("/register", authHandlers.Register, loginLimiter)
	api.POST("/login", authHandlers.Login, loginLimiter)

	protected := api.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig([]byte(jwtSecret))))

	protected.GET("/bikes/nearby", bikeHandlers.Nearby)
	protected.POST("/rentals/start", rentalHandlers.StartRental)
	protected.POST("/rentals/end/:rental_id", rentalHandlers.EndRental)
	protected.POST("/rides/schedule", rideHandlers.ScheduleRide)
	protected.DELETE("/rides/cancel/:ride_id", rideHandlers.CancelRide)
	protected.GET("/rides", rideHandlers.ListRides)
	protected.GET("/profile", profileHandlers.GetProfile)
	protected.PUT("/profile", profileHandlers.UpdateProfile)
	protected.GET("/export/powerbi", exportHandlers.ExportPowerBI)

	log.Printf("pedalgo server v%s starting on port %d", version, cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
