package main

import (
	"net/http"
	"os"

	"volleyhub/backend/internal/auth"
	"volleyhub/backend/internal/config"
	"volleyhub/backend/internal/database"
	"volleyhub/backend/internal/handler"
	"volleyhub/backend/internal/logging"
	"volleyhub/backend/internal/membership"
	"volleyhub/backend/internal/models"
	"volleyhub/backend/internal/scheduler"
	"volleyhub/backend/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	// Swagger imports
	_ "volleyhub/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           VolleyHub API
// @version         1.0
// @description     REST API for organizing volleyball games.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	logger, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	logger.Info("database connection established")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	members := membership.NewService(store.New(db), logger)

	userHandler := &handler.UserHandler{DB: db, JWTSecret: cfg.JWTSecret}
	roomHandler := &handler.RoomHandler{Members: members}
	uploadHandler := &handler.UploadHandler{Dir: cfg.UploadDir}

	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Uploaded images are served directly from disk
	router.Static("/uploads", cfg.UploadDir)

	api := router.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", userHandler.Register)
			authRoutes.POST("/login", userHandler.Login)
		}

		// User routes (protected)
		userRoutes := api.Group("/users")
		userRoutes.Use(auth.Middleware(cfg.JWTSecret))
		{
			userRoutes.GET("/me", userHandler.GetMe)
			userRoutes.PUT("/me", userHandler.UpdateMe)
			userRoutes.GET("/:id", userHandler.GetUserByID)
		}

		// Room routes: browsing is public, everything else needs a token
		roomRoutes := api.Group("/rooms")
		{
			roomRoutes.GET("", roomHandler.ListRooms)
			roomRoutes.GET("/:id", roomHandler.GetRoom)

			protected := roomRoutes.Group("")
			protected.Use(auth.Middleware(cfg.JWTSecret))
			{
				protected.POST("/create", auth.RequireRole(db, models.RoleOrganizer, models.RoleAdmin), roomHandler.CreateRoom)
				protected.POST("/join/:roomId", roomHandler.JoinRoom)
				protected.POST("/leave/:roomId", roomHandler.LeaveRoom)
				protected.PUT("/:id", roomHandler.UpdateRoom)
				protected.DELETE("/:id", roomHandler.DeleteRoom)
			}
		}

		// File upload (protected)
		api.POST("/upload", auth.Middleware(cfg.JWTSecret), uploadHandler.Upload)
	}

	statusCron := scheduler.Start(db, logger)
	defer statusCron.Stop()

	logger.Info("server listening", zap.String("addr", cfg.ServerAddr))
	if err := router.Run(cfg.ServerAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
