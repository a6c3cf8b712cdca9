package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"housematch/internal/catalog"
	"housematch/internal/config"
	"housematch/internal/handler"
	"housematch/internal/logger"
	"housematch/internal/service"
	"housematch/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("housematch engine starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// House catalog
	cat, err := catalog.NewPostgresCatalog(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		zlog.Fatal("failed to connect to catalog database", zap.Error(err))
	}
	defer cat.Close()
	zlog.Info("connected to catalog database")

	// Session store
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			zlog.Fatal("failed to connect to Redis", zap.Error(err))
		}
		store = session.NewRedisStore(client, cfg.Session.TTL)
		zlog.Info("using Redis session store", zap.String("addr", cfg.Session.RedisAddr))
	default:
		store = session.NewMemoryStore()
		zlog.Info("using in-memory session store")
	}
	defer store.Close()

	// Without an API key there is nothing to elicit with, so the
	// engine falls back to the deterministic mock path.
	mockMode := cfg.MockMode || !cfg.OpenAI.Enabled
	if mockMode && !cfg.MockMode {
		zlog.Warn("OPENAI_API_KEY not set, running in mock mode")
	}

	var extractor service.Extractor
	if cfg.OpenAI.Enabled {
		chatClient := service.NewOpenAIClient(&cfg.OpenAI, zlog)
		extractor = service.NewLLMExtractor(chatClient, zlog)
		zlog.Info("OpenAI client initialized",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("model", cfg.OpenAI.Model))
	}

	// Scoring pipeline
	matcher, err := service.NewMatcher(cfg.Match)
	if err != nil {
		zlog.Fatal("invalid match configuration", zap.Error(err))
	}
	explainer := service.NewExplainer(cfg.Match)
	mockProvider := service.NewMockProvider()
	recommender := service.NewRecommender(cat, cat, matcher, explainer, mockProvider, cfg.Match, zlog)

	conversation := service.NewConversation(store, extractor, recommender, cfg.Conversation, mockMode, zlog)
	conversation.StartReaper(ctx)

	zlog.Info("services initialized", zap.Bool("mock_mode", mockMode))

	// Handlers
	conversationHandler := handler.NewConversationHandler(conversation)
	recommendationHandler := handler.NewRecommendationHandler(recommender, cfg.Conversation.MockSeed)
	viewHandler := handler.NewViewHandler(recommender)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "housematch-engine",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/conversation/start", conversationHandler.Start)
		apiV1.POST("/conversation/advance", conversationHandler.Advance)
		apiV1.POST("/conversation/cancel", conversationHandler.Cancel)

		apiV1.GET("/recommendations/mock", recommendationHandler.Mock)

		apiV1.POST("/views", viewHandler.LogView)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	zlog.Info("starting server", zap.String("addr", addr))

	go func() {
		if err := router.Run(addr); err != nil {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
}
