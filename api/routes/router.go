package routes

import (
	"net/http"
	"time"

	"ticketly/internal/artifacts"
	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/internal/payments"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/internal/shared/middleware"
	"ticketly/internal/tickets"
	"ticketly/pkg/cache"
	"ticketly/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier *notifications.Service

	// BookingJobs is the expiry reclaimer, started by the server after routes
	// are wired
	BookingJobs *bookings.JobProcessor
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier *notifications.Service) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes wires every service and registers all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/metrics", metrics.Handler())

	auth := middleware.NewAuth(r.config)

	var cacheService cache.Service
	if r.db.Redis != nil {
		cacheService = cache.NewService(r.db.GetRedisClient())
	}

	// Events
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, cacheService, r.config.Redis.CacheTTL)
	eventController := events.NewController(eventService)

	// Ticket pools and the seat ledger
	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
	ticketLedger := tickets.NewLedger(r.db.GetPostgreSQL())
	ticketService := tickets.NewService(ticketRepo, eventService, cacheService, r.config.Redis.CacheTTL)
	ticketController := tickets.NewController(ticketService)

	// Payments
	gateway := payments.NewRazorpayGateway(r.config.Razorpay)
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	paymentService := payments.NewService(paymentRepo, gateway, r.config.Razorpay)
	paymentController := payments.NewController(paymentService)

	// Booking orchestrator
	issuer := artifacts.NewIssuer(r.config.Booking.ArtifactBaseURL)
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(
		bookingRepo,
		ticketLedger,
		ticketService,
		paymentService,
		issuer,
		r.notifier,
		r.config.Booking,
	)
	bookingController := bookings.NewController(bookingService)

	// The verifier finalizes bookings; the orchestrator opens orders. Close
	// the loop now that both exist.
	paymentService.BindFinalizer(bookingService)

	r.BookingJobs = bookings.NewJobProcessor(bookingService, r.config.Booking.SweepInterval)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		events.SetupEventRoutes(api, eventController, auth)
		tickets.SetupTicketRoutes(api, ticketController, auth)
		bookings.SetupBookingRoutes(api, bookingController, auth)
		payments.SetupPaymentRoutes(api, paymentController, auth)
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
				"service":   "ticketly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
