package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sfc/internal/config"
	"sfc/internal/mailer"
	"sfc/internal/observability/logging"
	"sfc/internal/observability/metrics"
	"sfc/internal/ratelimit"
	impl "sfc/internal/service/impl"
	"sfc/internal/store"
	httpx "sfc/internal/transport/http"
	"sfc/pkg/db"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: cfg.ProjectName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)
	metrics.MustRegister(cfg.ProjectName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) DB
	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)
	if err := st.AutoMigrate(ctx); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	// 2) Sign-in throttle, optional
	var limiter *ratelimit.SigninLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("redis url", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		limiter = ratelimit.NewSigninLimiter(rdb, ratelimit.Config{
			MaxFailures: cfg.SigninMaxFailures,
			Cooldown:    cfg.SigninCooldown,
		})
	} else {
		logger.Warn("REDIS_URL not set, sign-in throttle disabled")
	}

	// 3) Mail
	provider, err := mailer.New(ctx, mailer.Config{
		Provider:           cfg.EmailProvider,
		AWSRegion:          cfg.AWSRegion,
		SESSenderEmail:     cfg.SESSenderEmail,
		MailgunAPIKey:      cfg.MailgunAPIKey,
		MailgunDomain:      cfg.MailgunDomain,
		MailgunSenderEmail: cfg.MailgunSenderEmail,
		MailgunSenderName:  cfg.MailgunSenderName,
	})
	if err != nil {
		logger.Error("mailer", "error", err)
		os.Exit(1)
	}

	// 4) Services
	pw := impl.NewPasswordServiceArgon2id(impl.DefaultArgon2Params)
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		SigningKey: []byte(cfg.SigningKey),
	}, st)
	otps := impl.NewOTPService(impl.OTPConfig{
		TTL:                cfg.OTPTTL,
		MaxRequestsPerHour: cfg.OTPMaxRequestsPerHour,
		MaxVerifyAttempts:  cfg.OTPMaxVerifyAttempts,
	})
	mail := impl.NewEmailService(impl.EmailConfig{
		ProjectName: cfg.ProjectName,
		OTPTTL:      cfg.OTPTTL,
		Timeout:     cfg.EmailTimeout,
	}, provider)

	svcs := httpx.Services{
		Auth:     impl.NewAuthServiceImpl(st, pw, ts, otps, mail, limiter),
		Profiles: impl.NewProfileService(st),
		Privacy:  impl.NewPrivacyService(st),
		Catalog:  impl.NewCatalogService(st),
		Progress: impl.NewProgressService(impl.ProgressConfig{MaxActiveEnrollments: cfg.MaxActiveEnrollments}, st),
	}

	// 5) HTTP
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpx.NewRouter(svcs, httpx.Options{AuthRateLimitPerMinute: cfg.AuthRateLimitPerMinute}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("sfc listening", "addr", srv.Addr, "env", cfg.Environment, "email_provider", provider.Name())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("sfc stopped")
}
