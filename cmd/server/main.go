package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"shopassist/internal/auth"
	"shopassist/internal/catalog"
	"shopassist/internal/config"
	"shopassist/internal/handler"
	"shopassist/internal/logger"
	"shopassist/internal/metrics"
	"shopassist/internal/repository"
	"shopassist/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("Shopping assistant starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	gin.SetMode(cfg.Server.GinMode)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// AI intent extraction is optional; without it the lexical fallback runs.
	var extractor service.IntentExtractor
	if cfg.AI.Enabled {
		extractor = service.NewOpenAIClient(&cfg.AI, zapLogger.Named("ai"))
		zapLogger.Info("AI intent extraction enabled",
			zap.String("api_base", cfg.AI.APIBase),
			zap.String("model", cfg.AI.ChatModel),
		)
	} else {
		zapLogger.Warn("AI intent extraction disabled, using lexical fallback only",
			zap.String("hint", "set GEMINI_API_KEY or OPENAI_API_KEY to enable"))
	}

	cache, closeCache, err := newCatalogCache(cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeCache()
	catalogClient := catalog.NewClient(cfg.Catalog, cache, zapLogger.Named("catalog"))
	zapLogger.Info("Catalog client ready",
		zap.String("base_url", cfg.Catalog.BaseURL),
		zap.String("cache", cfg.Catalog.CacheType),
	)

	var chatLog service.ChatLogger
	var history handler.ChatHistory
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewChatLogRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer repo.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to prepare chat log schema: %w", err)
		}
		chatLog = repo
		history = repo
		zapLogger.Info("Chat log enabled")
	}

	intentParser := service.NewIntentParser(extractor, cfg.Intent.Stopwords, zapLogger.Named("intent"), m)
	ranker := service.NewRanker(cfg.Ranking)
	chatService := service.NewChatService(intentParser, catalogClient, ranker, chatLog, m, zapLogger.Named("chat"))

	tokens := auth.NewJWTManager(cfg.Users.JWTSecret, cfg.Users.TokenExpiry)
	users := repository.NewUserStore(cfg.Users.FilePath)
	authService := service.NewAuthService(users, tokens, zapLogger.Named("auth"))
	if cfg.Users.SeedDefaults {
		if err := authService.SeedDefaults(cfg.Users.AdminEmail, cfg.Users.AdminPassword); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
	}

	router := handler.NewRouter(handler.Routes{
		Chat:           handler.NewChatHandler(chatService, zapLogger.Named("http")),
		Feedback:       handler.NewFeedbackHandler(chatService),
		Auth:           handler.NewAuthHandler(authService),
		Admin:          handler.NewAdminHandler(authService, history),
		Tokens:         tokens,
		Metrics:        m.Handler(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         zapLogger.Named("http"),
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Serve the dashboard
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, cfg.Server.StaticDir, zapLogger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		zapLogger.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}
	chatService.Wait()

	zapLogger.Info("Server stopped")
	return nil
}

func newCatalogCache(cfg config.CatalogConfig) (catalog.Cache, func(), error) {
	switch cfg.CacheType {
	case config.CacheMemory:
		return catalog.NewMemoryCache(), func() {}, nil
	case config.CacheRedis:
		redisCache, err := catalog.NewRedisCache(catalog.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
