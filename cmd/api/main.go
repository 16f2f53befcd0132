package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/patrickacs/stocklio/internal/cache"
	"github.com/patrickacs/stocklio/internal/config"
	"github.com/patrickacs/stocklio/internal/database"
	"github.com/patrickacs/stocklio/internal/handlers"
	"github.com/patrickacs/stocklio/internal/logger"
	"github.com/patrickacs/stocklio/internal/marketdata"
	"github.com/patrickacs/stocklio/internal/middleware"
	"github.com/patrickacs/stocklio/internal/services"
	"github.com/patrickacs/stocklio/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()

	// Cache backend is a static process-wide choice.
	var store cache.Store
	switch appConfig.CacheBackend {
	case "database":
		store = cache.NewDatabase(db)
	default:
		store = cache.NewMemory()
	}
	log.Infof("Using %s cache backend", appConfig.CacheBackend)

	sweeper := cache.NewSweeper(store)
	sweeper.Start()
	defer sweeper.Stop()

	// Provider chain in priority order. Alpha Vantage joins only when a key
	// is configured; with no reachable provider the gateway serves snapshots
	// and synthetic data.
	providers := []marketdata.Provider{
		marketdata.NewYahooProvider(http.DefaultClient, appConfig.YahooBaseURL),
	}
	if appConfig.AlphaVantageAPIKey != "" {
		providers = append(providers,
			marketdata.NewAlphaVantageProvider(http.DefaultClient, appConfig.AlphaVantageBaseURL, appConfig.AlphaVantageAPIKey))
	}
	gateway := marketdata.NewGateway(store, db, providers...)

	// Register custom binding validators before any routes bind.
	validator.Register()

	userService := services.NewUserService(db)
	assetService := services.NewAssetService(db, store)
	enrichmentService := services.NewEnrichmentService(db, gateway, store)
	dividendService := services.NewDividendService(db, gateway, store)
	screenerService := services.NewScreenerService(db, store)
	stockService := services.NewStockService(db, gateway)

	authHandler := handlers.NewAuthHandler(userService)
	assetHandler := handlers.NewAssetHandler(assetService)
	portfolioHandler := handlers.NewPortfolioHandler(enrichmentService)
	dividendHandler := handlers.NewDividendHandler(dividendService)
	stockHandler := handlers.NewStockHandler(stockService, screenerService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	limiter := middleware.NewRateLimiter(appConfig.RateLimitRequests, appConfig.RateLimitWindow)
	router.Use(limiter.Middleware())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	stocks := v1.Group("/stocks")
	stocks.GET("", stockHandler.List)
	stocks.GET("/search", stockHandler.Search)
	stocks.POST("/screener", stockHandler.Screener)
	stocks.GET("/:ticker", stockHandler.Detail)
	stocks.GET("/:ticker/history", stockHandler.History)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.DELETE("/profile", authHandler.DeleteAccount)

	portfolio := protected.Group("/portfolio")
	portfolio.POST("", assetHandler.AddAsset)
	portfolio.GET("", assetHandler.ListAssets)
	portfolio.GET("/enriched", portfolioHandler.ListEnriched)
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.POST("/summary/refresh", portfolioHandler.RefreshSummary)
	portfolio.GET("/:id", assetHandler.GetAsset)
	portfolio.PATCH("/:id", assetHandler.UpdateAsset)
	portfolio.DELETE("/:id", assetHandler.DeleteAsset)

	dividends := protected.Group("/dividends")
	dividends.GET("/upcoming", dividendHandler.Upcoming)
	dividends.GET("/projection", dividendHandler.Projection)

	log.Infof("Starting Stocklio backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
