package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"courtfind/config"
	_ "courtfind/docs"
	"courtfind/internal/adapters/auth"
	"courtfind/internal/adapters/email"
	"courtfind/internal/adapters/lock"
	"courtfind/internal/adapters/payment"
	httpdelivery "courtfind/internal/delivery/http"
	"courtfind/internal/delivery/http/controllers"
	"courtfind/internal/delivery/http/middleware"
	"courtfind/internal/domain"
	"courtfind/internal/repository/postgres"
	"courtfind/internal/services"
)

// @title CourtFind API
// @version 1.0
// @description Court search, hourly availability, booking and payment API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	locker, closeLocker, err := newBookingLocker(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Error("connect redis", "err", err)
		os.Exit(1)
	}
	defer closeLocker()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	gateway, err := payment.NewGateway(payment.GatewayConfig{
		Provider: cfg.PaymentProvider,
		Stripe: payment.StripeConfig{
			SecretKey:  cfg.StripeSecretKey,
			SuccessURL: cfg.StripeSuccessURL,
			CancelURL:  cfg.StripeCancelURL,
			Currency:   cfg.StripeCurrency,
		},
	}, logger)
	if err != nil {
		logger.Error("create payment gateway", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	arenaRepo := postgres.NewArenaRepository(db)
	courtRepo := postgres.NewCourtRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	resetRepo := postgres.NewPasswordResetRepository(db)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	hasher := auth.NewBcryptHasher(0)
	scorer := auth.NewStrengthScorer()
	authService := services.NewAuthService(
		userRepo,
		hasher,
		scorer,
		auth.NewJWTIssuer(cfg.JWTSecret),
		cfg.JWTExpiry,
		emailService,
		logger,
		cfg.ContextTimeout,
	)
	userService := services.NewUserService(
		userRepo,
		resetRepo,
		hasher,
		scorer,
		emailService,
		cfg.PasswordResetURL,
		cfg.PasswordResetTTL,
		logger,
		cfg.ContextTimeout,
	)
	arenaService := services.NewArenaService(arenaRepo, courtRepo, cfg.ContextTimeout)
	bookingService := services.NewBookingService(courtRepo, bookingRepo, locker, cfg.BookingLockTTL, logger, cfg.ContextTimeout)
	paymentService := services.NewPaymentService(bookingRepo, paymentRepo, userRepo, gateway, emailService, logger, cfg.ContextTimeout)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	}
	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:    controllers.NewAuthController(logger, authService),
		User:    controllers.NewUserController(logger, userService),
		Arena:   controllers.NewArenaController(logger, arenaService),
		Court:   controllers.NewCourtController(logger, arenaService, bookingService),
		Booking: controllers.NewBookingController(logger, bookingService),
		Payment: controllers.NewPaymentController(logger, paymentService),
	}, auth.NewJWTVerifier(cfg.JWTSecret), limiter, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpdelivery.NewHandler(router, cfg.CORSAllowedOrigins, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// newBookingLocker uses redis when a URL is configured and an in-process lock otherwise.
func newBookingLocker(ctx context.Context, redisURL string, logger *slog.Logger) (domain.BookingLocker, func(), error) {
	if redisURL == "" {
		logger.Warn("REDIS_URL not set, booking locks are local to this process")
		return lock.NewLocalLocker(), func() {}, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return lock.NewRedisLocker(rdb, "courtfind"), func() { _ = rdb.Close() }, nil
}
