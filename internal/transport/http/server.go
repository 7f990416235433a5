package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autumninthecloud/AIBillBrief/internal/ai"
	appsvc "github.com/autumninthecloud/AIBillBrief/internal/app"
	"github.com/autumninthecloud/AIBillBrief/internal/bootstrap"
	"github.com/autumninthecloud/AIBillBrief/internal/cache"
	"github.com/autumninthecloud/AIBillBrief/internal/platform/rabbitmq"
	"github.com/autumninthecloud/AIBillBrief/internal/repository"
	"github.com/autumninthecloud/AIBillBrief/internal/retrieval"
	"github.com/autumninthecloud/AIBillBrief/internal/transport/http/handler"
	"github.com/autumninthecloud/AIBillBrief/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	sessionRepo := repository.NewSessionRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	chunkRepo := repository.NewBillChunkRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)

	engine := retrieval.NewEngine(chunkRepo, app.Config.Retrieval.NumChunks)
	formatter := retrieval.NewFormatter(
		app.Config.Retrieval.LegislatureHost,
		app.Config.Retrieval.SessionCode,
	)
	billCache := cache.NewBillCache(
		app.Redis,
		time.Duration(app.Config.Redis.BillCacheTTLSeconds)*time.Second,
	)
	billService := appsvc.NewBillService(chunkRepo, billCache, engine, formatter)

	llmClient := ai.NewClient(ai.Config{
		BaseURL:       app.Config.LLM.BaseURL,
		APIKey:        app.Config.LLM.APIKey,
		DefaultModel:  app.Config.LLM.Model,
		AllowedModels: app.Config.LLM.AllowedModels,
	})
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)
	chatService := appsvc.NewChatService(
		sessionRepo,
		messageRepo,
		publisher,
		historyCache,
		billService,
		llmClient,
		app.Config.Retrieval.NumChatMessages,
		app.Config.Retrieval.NumChunks,
	)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	billHandler := handler.NewBillHandler(billService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	chatGroup.POST("/sessions", chatHandler.CreateSession)
	chatGroup.GET("/sessions", chatHandler.ListSessions)
	chatGroup.DELETE("/sessions/:id", chatHandler.DeleteSession)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.POST("/messages/stream", chatHandler.StreamMessage)
	chatGroup.GET("/history", chatHandler.GetHistory)

	billGroup := v1.Group("/bills")
	billGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	billGroup.GET("/recent", billHandler.Recent)
	billGroup.GET("/stats", billHandler.Stats)
	billGroup.POST("/query", billHandler.Query)

	return router
}
