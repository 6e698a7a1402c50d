package routes

import (
	"net/http"
	"time"

	"showbook/internal/auth"
	"showbook/internal/bookings"
	"showbook/internal/notifications"
	"showbook/internal/payments"
	"showbook/internal/programs"
	"showbook/internal/promos"
	"showbook/internal/shared/config"
	"showbook/internal/shared/database"
	"showbook/internal/showtimes"
	"showbook/internal/venues"
	"showbook/pkg/cache"
	"showbook/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	rateLimiter *ratelimit.RateLimiter
	notifier    notifications.Service

	// Shared across feature groups, populated in dependency order
	cacheService    cache.Service
	authRepo        auth.Repository
	venueService    venues.Service
	programRepo     programs.Repository
	showtimeRepo    showtimes.Repository
	showtimeService showtimes.Service
	promoRepo       promos.Repository
	promoService    promos.Service
	seatGuard       *showtimes.SeatGuard
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, notifier notifications.Service) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		rateLimiter: rateLimiter,
		notifier:    notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.cacheService = cache.NewService(r.db.GetRedisClient())
	r.seatGuard = showtimes.NewSeatGuard(r.db.GetRedisClient())

	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Ordering matters: later groups reuse services built by earlier ones
		r.setupAuthRoutes(api)
		r.setupVenueRoutes(api)
		r.setupProgramRoutes(api)
		r.setupShowtimeRoutes(api)
		r.setupPromoRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "showbook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "showbook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	r.authRepo = auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(r.authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupVenueRoutes configures venue and screen management routes
func (r *Router) setupVenueRoutes(rg *gin.RouterGroup) {
	venueRepo := venues.NewRepository(r.db.GetPostgreSQL())
	r.venueService = venues.NewService(venueRepo, r.cacheService)
	venueController := venues.NewController(r.venueService)

	venues.SetupVenueRoutes(rg, venueController, r.config)
}

// setupProgramRoutes configures the movie and event catalog routes
func (r *Router) setupProgramRoutes(rg *gin.RouterGroup) {
	r.programRepo = programs.NewRepository(r.db.GetPostgreSQL())
	programService := programs.NewService(r.programRepo, r.cacheService)
	programController := programs.NewController(programService)

	programs.SetupProgramRoutes(rg, programController, r.config)
}

// setupShowtimeRoutes configures showtime scheduling and availability routes
func (r *Router) setupShowtimeRoutes(rg *gin.RouterGroup) {
	r.showtimeRepo = showtimes.NewRepository(r.db.GetPostgreSQL())
	r.showtimeService = showtimes.NewService(r.showtimeRepo, r.venueService, r.programRepo, r.cacheService, r.config)
	showtimeController := showtimes.NewController(r.showtimeService)

	showtimes.SetupShowtimeRoutes(rg, showtimeController, r.config)
}

// setupPromoRoutes configures promo code management routes
func (r *Router) setupPromoRoutes(rg *gin.RouterGroup) {
	r.promoRepo = promos.NewRepository(r.db.GetPostgreSQL())
	r.promoService = promos.NewService(r.promoRepo)
	promoController := promos.NewController(r.promoService)

	promos.SetupPromoRoutes(rg, promoController, r.config)
}

// setupBookingRoutes configures booking, payment and check-in routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL(), r.showtimeRepo, r.promoRepo)
	gateway := payments.NewGateway(r.config)

	bookingService := bookings.NewService(
		bookingRepo,
		r.showtimeRepo,
		r.showtimeService,
		r.seatGuard,
		r.venueService,
		r.promoService,
		r.authRepo,
		gateway,
		r.notifier,
		r.config,
	)
	bookingController := bookings.NewController(bookingService)

	var criticalLimit gin.HandlerFunc
	if r.rateLimiter != nil {
		criticalLimit = ratelimit.LimitFor(r.rateLimiter, ratelimit.RateLimitTypeBookingCritical)
	}

	bookings.SetupBookingRoutes(rg, bookingController, r.config, criticalLimit)
}
