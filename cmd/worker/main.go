package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/petclinic-api/internal/config"
	"github.com/jwalitptl/petclinic-api/internal/repository/postgres"
	"github.com/jwalitptl/petclinic-api/internal/worker"
	"github.com/jwalitptl/petclinic-api/pkg/logger"
	"github.com/jwalitptl/petclinic-api/pkg/messaging"
	"github.com/jwalitptl/petclinic-api/pkg/messaging/redis"
	"github.com/jwalitptl/petclinic-api/pkg/metrics"
)

// workerConfig overrides the shared config file through the environment so
// the worker can be scheduled independently of the API deployment.
type workerConfig struct {
	ReconcileSchedule string        `envconfig:"RECONCILE_SCHEDULE"`
	ReconcileBatch    int           `envconfig:"RECONCILE_BATCH_SIZE"`
	SweepInterval     time.Duration `envconfig:"SWEEP_INTERVAL"`
}

func main() {
	_ = godotenv.Load()

	logger.Setup(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var wcfg workerConfig
	if err := envconfig.Process("petclinic", &wcfg); err != nil {
		log.Fatal().Err(err).Msg("failed to process worker environment")
	}
	if wcfg.ReconcileSchedule == "" {
		wcfg.ReconcileSchedule = cfg.Reconciler.Schedule
	}
	if wcfg.ReconcileBatch == 0 {
		wcfg.ReconcileBatch = cfg.Reconciler.BatchSize
	}
	if wcfg.SweepInterval == 0 {
		wcfg.SweepInterval = cfg.Polling.Interval
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	bookingRepo := postgres.NewBookingRepository(db)
	recordRepo := postgres.NewRecordRepository(db)
	m := metrics.NewMetrics("petclinic", "worker")

	reconciler := worker.NewReconciler(bookingRepo, recordRepo, wcfg.ReconcileBatch, wcfg.SweepInterval, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := cron.New()
	if _, err := c.AddFunc(wcfg.ReconcileSchedule, func() {
		if err := reconciler.Sweep(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled reconciliation failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", wcfg.ReconcileSchedule).Msg("invalid reconcile schedule")
	}
	c.Start()
	defer c.Stop()

	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(redis.Config{
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

		go consumeEvents(ctx, broker, messaging.ChannelBookingCreated)
		go consumeEvents(ctx, broker, messaging.ChannelBookingCompleted)
	}

	log.Info().
		Str("schedule", wcfg.ReconcileSchedule).
		Int("batch_size", wcfg.ReconcileBatch).
		Msg("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("worker shutting down")
}

// consumeEvents logs the booking lifecycle stream. It doubles as a liveness
// signal for the pub/sub pipeline in production.
func consumeEvents(ctx context.Context, broker messaging.Broker, channel string) {
	messages, err := broker.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to subscribe")
		return
	}

	for payload := range messages {
		var msg messaging.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("unreadable event payload")
			continue
		}
		log.Info().Str("channel", channel).Str("type", msg.Type).Msg("booking event received")
	}
}
