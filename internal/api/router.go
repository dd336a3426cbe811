package api

import (
	"github.com/gin-gonic/gin"

	"github.com/careersage/careersage-backend/internal/api/handlers"
	"github.com/careersage/careersage-backend/internal/api/middleware"
	"github.com/careersage/careersage-backend/internal/config"
	"github.com/careersage/careersage-backend/internal/repository"
	"github.com/careersage/careersage-backend/internal/service"
	"github.com/careersage/careersage-backend/internal/websocket"
	"github.com/careersage/careersage-backend/pkg/database"
	jwtutil "github.com/careersage/careersage-backend/pkg/jwt"
	"github.com/careersage/careersage-backend/pkg/llm"
	"github.com/careersage/careersage-backend/pkg/logger"
	"github.com/careersage/careersage-backend/pkg/ratelimit"
	"github.com/careersage/careersage-backend/pkg/storage"
)

// SetupRouter wires repositories, services and handlers into the HTTP
// router. redisLimiter may be nil, in which case rate limits fall back to
// per-instance token buckets.
func SetupRouter(cfg *config.Config, db *database.DB, redisLimiter *ratelimit.RedisRateLimiter) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	jwtManager := jwtutil.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	llmClient := llm.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	storageManager := storage.NewStorage(cfg.StoragePath)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	battleRepo := repository.NewBattleRepository(db)
	statsRepo := repository.NewBattleStatsRepository(db)
	roadmapRepo := repository.NewRoadmapRepository(db)
	userRoadmapRepo := repository.NewUserRoadmapRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// WebSocket hub
	wsHub := websocket.NewHub()

	// Services
	userService := service.NewUserService(userRepo, progressRepo, jwtManager)
	questionService := service.NewQuestionService(llmClient, cfg.QuestionsPerBattle)
	ratingService := service.NewRatingService()
	registry := service.NewLiveRegistry()
	battleService := service.NewBattleService(
		battleRepo,
		statsRepo,
		userRepo,
		progressRepo,
		notificationRepo,
		questionService,
		ratingService,
		registry,
		wsHub,
	)
	roadmapService := service.NewRoadmapService(roadmapRepo, userRoadmapRepo, progressRepo)
	quizService := service.NewQuizService(quizRepo, progressRepo)
	aiService := service.NewAIService(llmClient, userRoadmapRepo, progressRepo)
	friendService := service.NewFriendService(friendRepo, notificationRepo, userRepo, wsHub)
	dashboardService := service.NewDashboardService(progressRepo, userRoadmapRepo, quizRepo, progressRepo)

	// Inbound battle events flow through the hub into the battle service.
	wsHub.SetHandler(NewBattleEventRouter(battleService, wsHub))
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, storageManager)
	battleHandler := handlers.NewBattleHandler(battleService)
	roadmapHandler := handlers.NewRoadmapHandler(roadmapService)
	quizHandler := handlers.NewQuizHandler(quizService)
	aiHandler := handlers.NewAIHandler(aiService)
	friendHandler := handlers.NewFriendHandler(friendService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, jwtManager)

	// Rate limits: shared via Redis when available, per-instance otherwise.
	authLimit := middleware.AuthRateLimit()
	aiLimit := middleware.AIGenerationRateLimit()
	if redisLimiter != nil {
		authLimit = middleware.RedisAuthRateLimit(redisLimiter)
		aiLimit = middleware.RedisAIGenerationRateLimit(redisLimiter)
	}

	auth := middleware.Auth(jwtManager)

	router.GET("/health", handlers.HealthCheck)
	router.Static("/storage", cfg.StoragePath)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/ws", wsHandler.HandleWebSocket)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authLimit, authHandler.Register)
			authGroup.POST("/login", authLimit, authHandler.Login)
			authGroup.POST("/logout", auth, authHandler.Logout)
			authGroup.GET("/me", auth, authHandler.Me)
			authGroup.PUT("/me", auth, authHandler.UpdateMe)
			authGroup.POST("/me/avatar", auth, authHandler.UploadAvatar)
		}

		battles := v1.Group("/battles")
		{
			battles.GET("/leaderboard", battleHandler.Leaderboard)
			battles.GET("/stats", auth, battleHandler.Stats)
			battles.GET("/history", auth, battleHandler.History)
			battles.GET("/active", auth, battleHandler.Active)
		}

		roadmaps := v1.Group("/roadmaps")
		{
			roadmaps.GET("", roadmapHandler.List)
			roadmaps.GET("/categories", roadmapHandler.Categories)
			roadmaps.GET("/:slug", roadmapHandler.GetBySlug)

			mine := roadmaps.Group("/user")
			mine.Use(auth)
			{
				mine.GET("", roadmapHandler.ListMine)
				mine.POST("", roadmapHandler.Save)
				mine.GET("/:id", roadmapHandler.GetMine)
				mine.PUT("/:id", roadmapHandler.Update)
				mine.DELETE("/:id", roadmapHandler.Delete)
				mine.POST("/:id/nodes", roadmapHandler.ToggleNode)
			}
		}

		quiz := v1.Group("/quiz")
		{
			quiz.GET("/questions/:category", quizHandler.Questions)
			quiz.POST("/submit", auth, quizHandler.Submit)
			quiz.GET("/results", auth, quizHandler.Results)
		}

		ai := v1.Group("/ai")
		ai.Use(auth)
		{
			ai.POST("/generate-roadmap", aiLimit, aiHandler.GenerateRoadmap)
			ai.POST("/chat", aiHandler.Chat)
			ai.GET("/resources", aiHandler.SuggestResources)
		}

		friends := v1.Group("/friends")
		friends.Use(auth)
		{
			friends.GET("", friendHandler.List)
			friends.POST("/request", friendHandler.SendRequest)
			friends.POST("/accept/:id", friendHandler.AcceptRequest)
			friends.DELETE("/:id", friendHandler.Remove)
			friends.GET("/notifications", friendHandler.Notifications)
			friends.POST("/notifications/read", friendHandler.MarkNotificationsRead)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/leaderboard", dashboardHandler.Leaderboard)
			dashboard.GET("/stats", auth, dashboardHandler.Stats)
			dashboard.GET("/roadmaps", auth, dashboardHandler.Roadmaps)
			dashboard.GET("/activity", auth, dashboardHandler.Activity)
			dashboard.GET("/skills", auth, dashboardHandler.Skills)
			dashboard.GET("/progress", auth, dashboardHandler.Progress)
		}
	}

	return router
}
