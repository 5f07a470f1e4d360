package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/petclinic-api/internal/config"
	"github.com/jwalitptl/petclinic-api/internal/email"
	"github.com/jwalitptl/petclinic-api/internal/handler"
	analyticsHandler "github.com/jwalitptl/petclinic-api/internal/handler/analytics"
	authHandler "github.com/jwalitptl/petclinic-api/internal/handler/auth"
	bookingHandler "github.com/jwalitptl/petclinic-api/internal/handler/booking"
	recordHandler "github.com/jwalitptl/petclinic-api/internal/handler/record"
	vetHandler "github.com/jwalitptl/petclinic-api/internal/handler/vet"
	"github.com/jwalitptl/petclinic-api/internal/middleware"
	"github.com/jwalitptl/petclinic-api/internal/repository/postgres"
	"github.com/jwalitptl/petclinic-api/internal/router"
	analyticsService "github.com/jwalitptl/petclinic-api/internal/service/analytics"
	authService "github.com/jwalitptl/petclinic-api/internal/service/auth"
	bookingService "github.com/jwalitptl/petclinic-api/internal/service/booking"
	recordService "github.com/jwalitptl/petclinic-api/internal/service/record"
	vetService "github.com/jwalitptl/petclinic-api/internal/service/vet"
	"github.com/jwalitptl/petclinic-api/pkg/auth"
	"github.com/jwalitptl/petclinic-api/pkg/logger"
	"github.com/jwalitptl/petclinic-api/pkg/messaging"
	"github.com/jwalitptl/petclinic-api/pkg/messaging/redis"
	"github.com/jwalitptl/petclinic-api/pkg/metrics"
)

func main() {
	// Optional local overrides; absent in deployed environments.
	_ = godotenv.Load()

	logger.Setup(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	m := metrics.NewMetrics("petclinic", "api")

	bookingRepo := postgres.NewBookingRepository(db)
	recordRepo := postgres.NewRecordRepository(db)
	userRepo := postgres.NewUserRepository(db)
	vetRepo := postgres.NewVetRepository(db)
	txRunner := postgres.NewTxRunner(db, m)

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redis.NewRedisBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer broker.Close()
	} else {
		log.Warn().Msg("redis not configured, booking events disabled")
	}

	emailSvc := email.NewService(cfg.SMTP)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})

	tokenExpiry := time.Duration(cfg.JWT.ExpiryHours) * time.Hour
	authSvc := authService.NewService(userRepo, vetRepo, jwtSvc, tokenExpiry)
	bookingSvc := bookingService.NewService(bookingRepo, recordRepo, txRunner, broker, emailSvc, m)
	recordSvc := recordService.NewService(recordRepo)
	vetSvc := vetService.NewService(bookingRepo, recordRepo, txRunner, broker, m)
	analyticsSvc := analyticsService.NewService(bookingRepo)

	authMW := middleware.NewAuthMiddleware(jwtSvc, authSvc)

	r := router.NewRouter(
		authMW,
		authHandler.NewHandler(authSvc),
		bookingHandler.NewHandler(bookingSvc, cfg.Polling.Interval),
		recordHandler.NewHandler(recordSvc),
		vetHandler.NewHandler(vetSvc),
		analyticsHandler.NewHandler(analyticsSvc),
		handler.NewHandler(db),
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RPS),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "petclinic_http",
			Timeout:       cfg.Server.RequestTimeout,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
