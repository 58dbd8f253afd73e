package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cabin-booking/internal/handler/api"
	"cabin-booking/internal/handler/middleware"
	"cabin-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *slog.Logger,
	availabilityHandler *api.AvailabilityHandler,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.RequestLimiter,
) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, availabilityHandler, bookingHandler, paymentHandler, adminHandler, authMiddleware, limiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	availabilityHandler *api.AvailabilityHandler,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.RequestLimiter,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		cabins := apiGroup.Group("/cabins")
		{
			addRoutes(cabins, []route{
				{Method: http.MethodGet, Path: "/:id/calendar", Handler: availabilityHandler.GetCalendar},
				{Method: http.MethodGet, Path: "/:id/availability", Handler: availabilityHandler.CheckAvailability},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking, Mw: []gin.HandlerFunc{middleware.RateLimit(limiter)}},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: paymentHandler.OpenOrder},
			})
		}

		payment := apiGroup.Group("/payment")
		{
			addRoutes(payment, []route{
				{Method: http.MethodPost, Path: "/webhook", Handler: paymentHandler.Webhook, Mw: []gin.HandlerFunc{middleware.RateLimit(limiter)}},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/bookings", Handler: adminHandler.ListBookings},
				{Method: http.MethodPost, Path: "/bookings/:id/confirm", Handler: adminHandler.ConfirmBooking},
				{Method: http.MethodPost, Path: "/bookings/:id/cancel", Handler: adminHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/bookings/:id/reopen", Handler: adminHandler.ReopenBooking},
			})
		}

		internal := apiGroup.Group("/internal")
		internal.Use(authMiddleware.RequireSweepSecret())
		{
			addRoutes(internal, []route{
				{Method: http.MethodPost, Path: "/sweep", Handler: adminHandler.Sweep, Mw: []gin.HandlerFunc{middleware.RateLimit(limiter)}},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
