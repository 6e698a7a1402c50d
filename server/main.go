package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"showbook/api/routes"
	"showbook/internal/notifications"
	"showbook/internal/shared/config"
	"showbook/internal/shared/database"
	"showbook/internal/showtimes"
	"showbook/pkg/logger"
	"showbook/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Preload the seat-guard Lua scripts so the first booking does not pay
	// the script-load round trip.
	if db.Redis != nil {
		guard := showtimes.NewSeatGuard(db.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := guard.PreloadScripts(ctx); err != nil {
			// Scripts load lazily on first use, so startup continues
			appLogger.Error("Failed to preload seat-guard Lua scripts", slog.Any("error", err))
		} else {
			appLogger.Info("✅ Seat-guard Lua scripts preloaded")
		}
		cancel()
	}

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiterConfig := &ratelimit.Config{
			Enabled:                 cfg.RateLimit.Enabled,
			WindowDuration:          cfg.RateLimit.WindowDuration,
			DefaultRequests:         cfg.RateLimit.DefaultRequests,
			PublicRequests:          cfg.RateLimit.PublicRequests,
			AuthRequests:            cfg.RateLimit.AuthRequests,
			BookingRequests:         cfg.RateLimit.BookingRequests,
			BookingCriticalRequests: cfg.RateLimit.BookingCriticalRequests,
			AdminRequests:           cfg.RateLimit.AdminRequests,
			WhitelistedIPs:          cfg.RateLimit.WhitelistedIPs,
		}

		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), rateLimiterConfig)
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	notifier, stopNotifications := setupNotifications(cfg, appLogger)
	defer stopNotifications()

	router := setupRouter(cfg, db, rateLimiter, notifier)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("kafka_notifications", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// setupNotifications wires the Kafka producer/consumer pair, or a no-op
// service when Kafka is disabled. The returned stop function shuts down
// whatever was started.
func setupNotifications(cfg *config.Config, appLogger *logger.Logger) (notifications.Service, func()) {
	if !cfg.Kafka.Enabled {
		appLogger.Info("Kafka disabled: booking notifications will not be sent")
		return notifications.NewNoopService(), func() {}
	}

	producer, err := notifications.NewKafkaNotificationProducer(notifications.NewKafkaProducerConfig(cfg))
	if err != nil {
		appLogger.Error("Failed to initialize notification producer", slog.Any("error", err))
		appLogger.Info("Continuing without notifications")
		return notifications.NewNoopService(), func() {}
	}

	var emailService notifications.EmailService
	smtpService, err := notifications.NewSMTPEmailService(notifications.NewSMTPConfig(cfg))
	if err != nil {
		appLogger.Info("SMTP not configured, logging emails instead", slog.Any("reason", err))
		emailService = notifications.NewLogEmailService()
	} else {
		emailService = smtpService
	}

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	consumer, err := notifications.NewKafkaNotificationConsumer(notifications.NewConsumerConfig(cfg), emailService)
	if err != nil {
		appLogger.Error("Failed to initialize notification consumer", slog.Any("error", err))
		consumerCancel()
		return notifications.NewService(producer), func() {
			producer.Close()
		}
	}

	if err := consumer.StartConsumers(consumerCtx, 3); err != nil {
		appLogger.Error("Failed to start notification consumers", slog.Any("error", err))
	} else {
		appLogger.Info("Notification consumers started", slog.Int("workers", 3))
	}

	return notifications.NewService(producer), func() {
		appLogger.Info("Stopping notification pipeline...")
		consumerCancel()
		if err := consumer.Stop(); err != nil {
			appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
		}
		if err := producer.Close(); err != nil {
			appLogger.Error("Error closing notification producer", slog.Any("error", err))
		}
	}
}

func setupRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, notifier notifications.Service) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter := routes.NewRouter(cfg, db, rateLimiter, notifier)
	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
