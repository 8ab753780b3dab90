package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"parkease/internal/handler"
	"parkease/internal/middleware"
	"parkease/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler       *handler.AuthHandler
	LotHandler        *handler.LotHandler
	SellerHandler     *handler.SellerHandler
	SearchHandler     *handler.SearchHandler
	BookingHandler    *handler.BookingHandler
	RedemptionHandler *handler.RedemptionHandler
	PayoutHandler     *handler.PayoutHandler
	ReviewHandler     *handler.ReviewHandler
	TokenVerifier     service.TokenVerifier
	RateLimiter       *middleware.RateLimiter
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Gateway webhook. Authenticated by signature, not bearer token.
	router.POST("/webhooks/payment", deps.BookingHandler.PaymentWebhook)

	auth := middleware.AuthMiddleware(deps.TokenVerifier)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Login routes.
		v1.POST("/auth/otp", deps.AuthHandler.RequestOTP)
		v1.POST("/auth/verify", deps.AuthHandler.VerifyOTP)
		v1.GET("/me", auth, deps.AuthHandler.Me)

		// Driver-facing search. Public: browsing needs no account.
		v1.GET("/search", deps.SearchHandler.Search)
		v1.GET("/lots/:id", deps.LotHandler.GetLot)
		v1.GET("/lots/:id/reviews", deps.ReviewHandler.ListLotReviews)

		// Seller lot management.
		lots := v1.Group("/lots", auth)
		{
			lots.POST("", deps.LotHandler.CreateLot)
			lots.GET("", deps.LotHandler.MyLots)
			lots.POST("/:id/spots", deps.LotHandler.AddSpot)
			lots.GET("/:id/spots", deps.LotHandler.ListSpots)
			lots.POST("/:id/pricing", deps.SellerHandler.CreateRule)
			lots.PUT("/:id/pricing", deps.SellerHandler.SetLotRate)
			lots.GET("/:id/pricing", deps.SellerHandler.ListRules)
		}
		v1.DELETE("/pricing/:id", auth, deps.SellerHandler.DeactivateRule)

		// Spot availability windows.
		spots := v1.Group("/spots", auth)
		{
			spots.POST("/:id/availability", deps.SellerHandler.SetAvailability)
			spots.GET("/:id/availability", deps.SellerHandler.ListWindows)
		}
		v1.DELETE("/availability/:id", auth, deps.SellerHandler.DeleteWindow)

		// Booking lifecycle.
		bookings := v1.Group("/bookings", auth)
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("", deps.BookingHandler.MyBookings)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
		}

		// Gate-side redemption.
		v1.POST("/redeem", auth, deps.RedemptionHandler.Redeem)

		// Seller payout account.
		v1.POST("/payout-account", auth, deps.PayoutHandler.LinkAccount)
		v1.GET("/payout-account", auth, deps.PayoutHandler.GetAccount)

		// Reviews.
		v1.POST("/reviews", auth, deps.ReviewHandler.CreateReview)
	}

	// Operational routes.
	admin := router.Group("/admin", auth)
	{
		admin.POST("/payouts/settle", deps.PayoutHandler.BatchSettle)
	}

	return router
}
