package main

import (
	"github.com/whanarchyven/drsarha-conf/internal/assistant"
	"github.com/whanarchyven/drsarha-conf/internal/config"
	"github.com/whanarchyven/drsarha-conf/internal/database"
	"github.com/whanarchyven/drsarha-conf/internal/handlers"
	"github.com/whanarchyven/drsarha-conf/internal/logger"
	"github.com/whanarchyven/drsarha-conf/internal/middleware"
	"github.com/whanarchyven/drsarha-conf/internal/services"
	"github.com/whanarchyven/drsarha-conf/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Conference Companion API
// @version         1.0
// @description     Backend for a live-event companion: moderated persona Q&A chat and timed quiz sessions
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogFile, cfg.Mode)
	defer log.Sync()

	db := database.Connect(cfg, log)
	database.AutoMigrate(db, log)

	hub := ws.NewHub(log)

	fetcher := assistant.NewClient(
		cfg.AssistantURL, cfg.AssistantProjectID, cfg.AssistantAgentRef,
		cfg.AssistantAgentName, cfg.AssistantThreadID, cfg.AssistantTimeout,
	)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db)
	sessionService := services.NewSessionService(db, hub, log)
	answerService := services.NewAnswerService(db)
	leaderboardService := services.NewLeaderboardService(db)
	chatService := services.NewChatService(db, fetcher, log)
	displayService := services.NewDisplayService(db)

	scheduler := services.NewScheduler(db, sessionService, log, cfg.SchedulerTick)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	questionHandler := handlers.NewQuestionHandler(quizService)
	sessionHandler := handlers.NewSessionHandler(sessionService, leaderboardService)
	playHandler := handlers.NewPlayHandler(sessionService, answerService)
	chatHandler := handlers.NewChatHandler(chatService)
	moderationHandler := handlers.NewModerationHandler(chatService)
	displayHandler := handlers.NewDisplayHandler(displayService)
	wsHandler := handlers.NewWSHandler(hub, log)

	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(middleware.Logger(log), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/quiz/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(authService), authHandler.Me)
			auth.PUT("/me", middleware.JWTAuth(authService), authHandler.UpdateProfile)
		}

		chat := api.Group("/chat")
		{
			chat.POST("/ask", middleware.JWTAuth(authService), chatHandler.Ask)
			chat.GET("/active", middleware.JWTAuth(authService), chatHandler.ActiveTicket)
			chat.GET("/tickets/:id/position", chatHandler.QueuePosition)
			chat.GET("/history", chatHandler.History)
			chat.GET("/phrases", middleware.OptionalAuth(authService), displayHandler.ListPhrases)
			chat.GET("/settings", displayHandler.GetSettings)
			chat.POST("/announcements/next", displayHandler.NextAnnouncement)
		}

		quizzes := api.Group("/quizzes")
		quizzes.Use(middleware.OptionalAuth(authService))
		{
			quizzes.GET("/:id/state", playHandler.GetState)
		}

		sessions := api.Group("/sessions")
		{
			sessions.GET("/active", middleware.OptionalAuth(authService), playHandler.GetActive)
			sessions.GET("/:id/leaderboard", sessionHandler.GetLeaderboard)
			sessions.POST("/:id/answer", middleware.JWTAuth(authService), playHandler.SubmitAnswer)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(authService), middleware.AdminOnly())
		{
			admin.GET("/quizzes", quizHandler.ListQuizzes)
			admin.POST("/quizzes", quizHandler.CreateQuiz)
			admin.GET("/quizzes/:id", quizHandler.GetQuiz)
			admin.PUT("/quizzes/:id", quizHandler.UpdateQuiz)
			admin.DELETE("/quizzes/:id", quizHandler.DeleteQuiz)
			admin.POST("/quizzes/:id/reset", quizHandler.ResetSessions)
			admin.POST("/quizzes/:id/force-preview", quizHandler.SetForcePreview)
			admin.POST("/quizzes/:id/start", sessionHandler.StartSession)
			admin.POST("/quizzes/:id/questions", questionHandler.CreateQuestion)

			admin.PUT("/questions/:id", questionHandler.UpdateQuestion)
			admin.DELETE("/questions/:id", questionHandler.DeleteQuestion)
			admin.POST("/questions/:id/options", questionHandler.CreateOption)
			admin.PUT("/options/:id", questionHandler.UpdateOption)
			admin.DELETE("/options/:id", questionHandler.DeleteOption)

			admin.GET("/chat/awaiting", moderationHandler.ListAwaiting)
			admin.PATCH("/chat/tickets/:id", moderationHandler.UpdateTicket)
			admin.DELETE("/chat/tickets/:id", moderationHandler.DeleteTicket)
			admin.POST("/chat/tickets/:id/approve", moderationHandler.ApproveTicket)
			admin.GET("/chat/tickets/:id/sources", moderationHandler.TicketSources)

			admin.POST("/chat/phrases", displayHandler.CreatePhrase)
			admin.PUT("/chat/phrases/:id", displayHandler.UpdatePhrase)
			admin.DELETE("/chat/phrases/:id", displayHandler.DeletePhrase)
			admin.PUT("/chat/settings", displayHandler.UpdateSettings)
			admin.POST("/chat/announcements", displayHandler.Announce)
		}
	}

	log.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
