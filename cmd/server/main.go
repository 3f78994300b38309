package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tanakh-review/api/internal/assembly"
	"github.com/tanakh-review/api/internal/cache"
	"github.com/tanakh-review/api/internal/client"
	"github.com/tanakh-review/api/internal/config"
	"github.com/tanakh-review/api/internal/database"
	"github.com/tanakh-review/api/internal/handler"
	"github.com/tanakh-review/api/internal/middleware"
	"github.com/tanakh-review/api/internal/moderation"
	"github.com/tanakh-review/api/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		// Continue without page cache (fail-open)
		redisCache = nil
	}

	// Core components
	engine := moderation.NewEngine(db)
	store := assembly.New(db)
	queryClient := client.NewQueryClient(cfg.QueryAPIURL, cfg.QueryAPIKey)

	// Handlers
	authHandler := handler.NewAuthHandler(db, cfg.JWTSecret)
	editsHandler := handler.NewEditsHandler(db, engine)
	moderationHandler := handler.NewModerationHandler(engine, store, redisCache)
	pageHandler := handler.NewPageHandler(db, store, redisCache)
	listingHandler := handler.NewListingHandler(db)
	progressHandler := handler.NewProgressHandler(db)
	queryHandler := handler.NewQueryHandler(queryClient)

	// Background refresh-token janitor
	var janitor *scheduler.TokenJanitor
	if cfg.JanitorEnabled {
		janitor = scheduler.NewTokenJanitor(db, scheduler.JanitorConfig{
			Interval: cfg.JanitorInterval,
		})
		go janitor.Start(context.Background())
		log.Println("Refresh-token janitor started")
	}

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.Use(middleware.RequestID())
	r.Use(middleware.MetricsMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Janitor status
	r.GET("/janitor/status", func(c *gin.Context) {
		if janitor != nil {
			c.JSON(200, janitor.GetStatus())
		} else {
			c.JSON(200, gin.H{"enabled": false, "message": "Janitor is disabled"})
		}
	})

	// Auth
	r.POST("/login", authHandler.Login)
	r.POST("/token", authHandler.RefreshToken)
	r.DELETE("/logout", authHandler.Logout)

	// Authenticated user routes
	user := r.Group("/", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		user.GET("/me", authHandler.Me)

		user.POST("/edits", editsHandler.SubmitEdit)
		user.POST("/ratings", editsHandler.SubmitRating)
		user.POST("/comparisons", editsHandler.SubmitComparison)

		user.GET("/page", pageHandler.GetPage)
		user.GET("/comparisonPage", pageHandler.GetComparisonPage)
		user.GET("/getTranslationVersions", pageHandler.GetTranslationVersions)
		user.GET("/bookInfo", pageHandler.GetBookInfo)
		user.GET("/passages", pageHandler.GetPassagesByIDs)

		user.GET("/progress", progressHandler.GetProgress)
		user.POST("/progress", progressHandler.UpdateProgress)

		user.GET("/query", queryHandler.Query)
		user.GET("/feedback", queryHandler.Feedback)
	}

	// Admin routes
	admin := r.Group("/", middleware.AdminMiddleware(cfg.JWTSecret))
	{
		admin.GET("/allEdits", listingHandler.AllEdits)
		admin.GET("/allRatings", listingHandler.AllRatings)
		admin.GET("/allComparisons", listingHandler.AllComparisons)

		admin.POST("/edits/publish", moderationHandler.PublishEdits)
		admin.POST("/edits/approve", moderationHandler.ApproveEdits)
		admin.POST("/edits/reject", moderationHandler.RejectEdits)
		admin.POST("/ratings/view", moderationHandler.ViewRatings)
		admin.POST("/ratings/dismiss", moderationHandler.DismissRatings)
		admin.POST("/comparisons/approve", moderationHandler.ApproveComparisons)
		admin.POST("/comparisons/reject", moderationHandler.RejectComparisons)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	log.Printf("API server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
