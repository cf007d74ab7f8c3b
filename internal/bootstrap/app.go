package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/jamal-o/blog-api/internal/handler/http"
	gormpersistence "github.com/jamal-o/blog-api/internal/infra/persistence/gorm"
	"github.com/jamal-o/blog-api/internal/infra/setup"
	"github.com/jamal-o/blog-api/internal/metrics"
	"github.com/jamal-o/blog-api/internal/middleware"
	"github.com/jamal-o/blog-api/internal/service"
)

// App holds the application's components.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Metrics     *metrics.Collector
	Router      *gin.Engine
	HttpServer  *http.Server
}

// NewLogger builds the process logger: text in development, JSON in production.
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	// Package-level logrus calls in services and handlers follow the same setup.
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(level)
	return log
}

// NewApp loads configuration and wires every component.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig wires every component from cfg.
func NewAppWithConfig(cfg *Config) (*App, error) {
	log := NewLogger(cfg)
	log.WithFields(logrus.Fields{"env": cfg.AppEnv, "db_driver": cfg.DB.Driver}).Info("Configuration loaded")

	db, err := setup.InitDB(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		log.Info("Redis client initialized")
	} else {
		log.Info("REDIS_ADDR not set, rate limiting is per instance")
	}

	userRepo := gormpersistence.NewGormUserRepository(db)
	articleRepo := gormpersistence.NewGormArticleRepository(db)

	collector := metrics.New()
	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to create TokenIssuer: %w", err)
	}
	authService := service.NewAuthService(userRepo, tokens)
	articleService := service.NewArticleService(articleRepo, userRepo, collector)

	router := newRouter(cfg, log, redisClient, collector,
		httpHandler.NewAuthHandler(authService),
		httpHandler.NewArticleHandler(articleService),
		middleware.Auth(tokens),
	)

	app := &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		Metrics:     collector,
		Router:      router,
		HttpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
	log.Info("Application assembled")
	return app, nil
}

func newRouter(cfg *Config, log *logrus.Logger, redisClient *redis.Client, collector *metrics.Collector,
	authHandler *httpHandler.AuthHandler, articleHandler *httpHandler.ArticleHandler, requireAuth gin.HandlerFunc) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Metrics(collector),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORSAllowedOrigin),
	)
	if redisClient != nil {
		router.Use(middleware.RateLimit(redisClient, cfg.KeyPrefix, cfg.RateLimitMax, cfg.RateLimitWindow))
	} else {
		router.Use(middleware.LocalRateLimit(cfg.RateLimitMax, cfg.RateLimitWindow))
	}

	router.NoRoute(httpHandler.NotFound)
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	router.GET("/metrics", gin.WrapH(collector.Handler()))
	httpHandler.RegisterRoutes(router.Group("/api/v1"), authHandler, articleHandler, requireAuth)
	return router
}

// Start serves HTTP in the background.
func (a *App) Start() {
	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening")
	}()
}

// Shutdown drains in-flight requests and closes connections.
func (a *App) Shutdown(ctx context.Context) {
	a.Log.Info("Shutting down application...")

	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully")
	}

	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}

	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete")
}
