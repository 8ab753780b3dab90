package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"parkease/internal/app"
	"parkease/internal/config"
	"parkease/internal/handler"
	"parkease/internal/metrics"
	"parkease/internal/middleware"
	"parkease/internal/provider"
	internalRedis "parkease/internal/redis"
	"parkease/internal/repository/postgres"
	"parkease/internal/service"
)

const expireSweepInterval = time.Minute

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := zlog.With().Str("service", "parkease").Logger()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize New Relic")
		} else {
			log.Info().Str("app", cfg.NewRelic.AppName).Msg("New Relic enabled")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	if err := app.RunMigrations(ctx, db, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to Redis")

	metrics.Register()

	// Wire dependencies.
	server, bookingService := wireServer(db, redisClient, nrApp, cfg, log)

	// Background sweep releasing abandoned provisional holds.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runExpireSweep(sweepCtx, bookingService, log)

	// Start server in goroutine.
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")
	stopSweep()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// booking service used by the background sweep.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log zerolog.Logger) (*http.Server, *service.BookingService) {
	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	otpStore := internalRedis.NewOTPStore(redisClient, cfg.Auth.OTPTTL)

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	payoutAccountRepo := postgres.NewPayoutAccountRepository(db)
	lotRepo := postgres.NewLotRepository(db)
	spotRepo := postgres.NewSpotRepository(db)
	availRepo := postgres.NewAvailabilityRepository(db)
	pricingRepo := postgres.NewPricingRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	searchRepo := postgres.NewSearchRepository(db)
	txManager := postgres.NewTxManager(db)

	// External providers.
	var paymentProvider provider.PaymentProvider
	var payoutProvider provider.PayoutProvider
	if cfg.Razorpay.KeyID != "" {
		paymentProvider = provider.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret)
		payoutProvider = provider.NewRazorpayXClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
		log.Info().Msg("payment gateway: razorpay")
	} else {
		paymentProvider = provider.NewMockPaymentProvider()
		payoutProvider = provider.NewMockPayoutProvider()
		log.Warn().Msg("payment gateway: mock (no credentials configured)")
	}

	// Services.
	events := service.NewEventLogger(log)
	notificationService := service.NewNotificationService(service.NewLogSMSSender(log))
	tokens := service.NewJWTManager(cfg.Auth.TokenSecret)
	accountService := service.NewAccountService(userRepo, otpStore, tokens, notificationService, events, cfg.Auth.TokenTTL)
	geocoder := service.NewStaticGeocoder()
	lotService := service.NewLotService(lotRepo, spotRepo, accountService, geocoder)
	pricingService := service.NewPricingService(txManager, pricingRepo, lotRepo)
	availabilityService := service.NewAvailabilityService(availRepo, spotRepo, lotRepo)
	searchService := service.NewSearchService(searchRepo)
	bookingService := service.NewBookingService(
		txManager, bookingRepo, availRepo, paymentRepo, userRepo, lotRepo,
		pricingService, lockStore, paymentProvider, notificationService, events,
		cfg.Booking.PendingPaymentTimeout, cfg.Razorpay.Currency,
	)
	redemptionService := service.NewRedemptionService(bookingRepo, lotRepo, userRepo, events)
	payoutService := service.NewPayoutService(paymentRepo, payoutAccountRepo, accountService, payoutProvider, lockStore, notificationService, events)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo)

	// Rate limiting.
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:       handler.NewAuthHandler(accountService),
		LotHandler:        handler.NewLotHandler(lotService),
		SellerHandler:     handler.NewSellerHandler(pricingService, availabilityService),
		SearchHandler:     handler.NewSearchHandler(searchService),
		BookingHandler:    handler.NewBookingHandler(bookingService, paymentProvider, log),
		RedemptionHandler: handler.NewRedemptionHandler(redemptionService),
		PayoutHandler:     handler.NewPayoutHandler(payoutService),
		ReviewHandler:     handler.NewReviewHandler(reviewService),
		TokenVerifier:     tokens,
		RateLimiter:       rateLimiter,
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, bookingService
}

// runExpireSweep periodically cancels PENDING bookings whose payment never
// arrived, releasing their provisional holds.
func runExpireSweep(ctx context.Context, bookings *service.BookingService, log zerolog.Logger) {
	ticker := time.NewTicker(expireSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := bookings.ExpirePendingBookings(ctx)
			if err != nil {
				log.Error().Err(err).Msg("expire sweep failed")
				continue
			}
			if count > 0 {
				log.Info().Int("expired", count).Msg("released abandoned holds")
			}
		}
	}
}
