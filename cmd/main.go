package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"mf360/internal/analytics"
	"mf360/internal/caching"
	"mf360/internal/handlers"
	"mf360/internal/middleware"
	"mf360/internal/repositories"
	"mf360/internal/services"
	"mf360/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	if err := database.RunMigrations(context.Background(), databaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}
	tokenTTL := 24 * time.Hour
	if hoursStr := os.Getenv("JWT_EXPIRATION_HOURS"); hoursStr != "" {
		if hours, err := strconv.Atoi(hoursStr); err == nil && hours > 0 {
			tokenTTL = time.Duration(hours) * time.Hour
		}
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration; archival is optional and disabled without an endpoint
	var minioSvc services.MinioService
	if minioEndpoint := os.Getenv("MINIO_ENDPOINT"); minioEndpoint != "" {
		minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
		if minioAccessKey == "" {
			minioAccessKey = "minioadmin" // Default for development
		}
		minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
		if minioSecretKey == "" {
			minioSecretKey = "minioadmin" // Default for development
		}
		useSSL := os.Getenv("MINIO_USE_SSL") == "true"

		minioSvc, err = services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO service: %v", err)
		}
		for _, bucket := range []string{services.BucketCSVImports, services.BucketReports} {
			if err := minioSvc.EnsureBucketExists(context.Background(), bucket); err != nil {
				log.Printf("WARN: failed to ensure bucket %s: %v", bucket, err)
			}
		}
	}

	// Create repositories
	userRepo := repositories.NewUserRepository(pool)
	investorRepo := repositories.NewInvestorRepository(pool)
	analysisRepo := repositories.NewAnalysisRepository(pool)
	settingsRepo := repositories.NewSettingsRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(jwtSecret, tokenTTL)
	investorSvc := services.NewInvestorService(investorRepo, cacheSvc)
	llmClient := services.NewHTTPLLMClient(os.Getenv("LLM_ENDPOINT"), os.Getenv("LLM_API_KEY"))
	analysisSvc := services.NewAnalysisService(investorRepo, analysisRepo, llmClient)
	reportSvc := services.NewReportService()
	analyticsSvc := analytics.NewAnalyticsService(investorRepo, analysisRepo, cacheSvc)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo, investorSvc)
	investorHandlers := handlers.NewInvestorHandlers(investorSvc, reportSvc, minioSvc)
	analysisHandlers := handlers.NewAnalysisHandlers(analysisSvc, reportSvc, minioSvc)
	settingsHandlers := handlers.NewSettingsHandlers(settingsRepo, investorSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(analyticsSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	corsConfig := echoMiddleware.DefaultCORSConfig
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	}
	e.Use(echoMiddleware.CORSWithConfig(corsConfig))

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	api := e.Group("/api")

	// Authentication routes (no token required)
	auth := api.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/forgot-password", authHandlers.ForgotPassword)
	auth.POST("/reset-password", authHandlers.ResetPassword)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.TokenAuth(authSvc, userRepo))

	protected.GET("/auth/me", authHandlers.Me)

	protected.GET("/investors", investorHandlers.ListInvestors)
	protected.POST("/investors", investorHandlers.CreateInvestor)
	protected.GET("/investors/csv-template/download", investorHandlers.DownloadCSVTemplate)
	protected.POST("/investors/import-csv", investorHandlers.ImportCSV)
	protected.GET("/investors/:id", investorHandlers.GetInvestor)
	protected.PUT("/investors/:id", investorHandlers.UpdateInvestor)
	protected.DELETE("/investors/:id", investorHandlers.DeleteInvestor)

	protected.POST("/analysis/run", analysisHandlers.RunAnalysis)
	protected.GET("/analysis/history", analysisHandlers.History)
	protected.GET("/analysis/report/:id/pdf", analysisHandlers.DownloadReportPDF)

	protected.GET("/settings/feature-flags", settingsHandlers.GetFeatureFlags)
	protected.PUT("/settings/feature-flags", settingsHandlers.UpdateFeatureFlags)
	protected.POST("/settings/reseed-data", settingsHandlers.ReseedData)

	protected.GET("/dashboard/stats", dashboardHandlers.Stats)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("MF360 back office v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
