package main

import (
	"log"

	"github.com/digitup/immo-api/internal/config"
	"github.com/digitup/immo-api/internal/database"
	"github.com/digitup/immo-api/internal/handler"
	"github.com/digitup/immo-api/internal/middleware"
	"github.com/digitup/immo-api/internal/repository"
	"github.com/digitup/immo-api/internal/service"
	"github.com/digitup/immo-api/internal/storage"
	"github.com/digitup/immo-api/internal/tokens"
	"github.com/digitup/immo-api/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Redis backs the login limiter and token revocation
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	imageStore, err := storage.NewLocalStore(cfg.StorageDir)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	propertyRepo := repository.NewPropertyRepository(database.DB)
	imageRepo := repository.NewImageRepository(database.DB)

	// Initialize services
	tokenStore := tokens.NewStore(redisClient)
	authService := service.NewAuthService(userRepo, tokenStore, cfg.JWTSecret, cfg.JWTExpiry)
	propertyService := service.NewPropertyService(propertyRepo)
	imageService := service.NewImageService(imageRepo, imageStore)

	// Initialize handlers
	loginLimiter := middleware.NewLoginLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow)
	authHandler := handler.NewAuthHandler(authService, loginLimiter)
	propertyHandler := handler.NewPropertyHandler(propertyService, imageStore)
	imageHandler := handler.NewImageHandler(propertyService, imageService)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(cfg.IsProduction()))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
	}))

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
	})
	router.Use(rateLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Uploaded images
	router.Static("/storage", imageStore.BaseDir())

	// Public routes
	api := router.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/properties", propertyHandler.Index)
	api.GET("/properties/:id", propertyHandler.Show)

	// Protected routes (require a valid, unrevoked token)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, tokenStore))
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/me", authHandler.Me)
		protected.POST("/refresh", authHandler.Refresh)

		protected.POST("/properties", propertyHandler.Store)
		protected.PUT("/properties/:id", propertyHandler.Update)
		protected.DELETE("/properties/:id", propertyHandler.Destroy)

		protected.POST("/properties/:id/images", imageHandler.Upload)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
