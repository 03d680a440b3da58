package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medminder/internal/adherence"
	"github.com/jwalitptl/medminder/internal/config"
	"github.com/jwalitptl/medminder/internal/notifier"
	"github.com/jwalitptl/medminder/internal/repository/postgres"
	"github.com/jwalitptl/medminder/internal/service/reminder"
	"github.com/jwalitptl/medminder/internal/worker"
	"github.com/jwalitptl/medminder/pkg/logger"
	"github.com/jwalitptl/medminder/pkg/messaging"
	"github.com/jwalitptl/medminder/pkg/messaging/redis"
	"github.com/jwalitptl/medminder/pkg/metrics"
)

func setupHealthAndMetrics(port int, logger *logger.Logger, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			logger.Fatal(err, "health server failed")
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("Failed to load config")
		os.Exit(1)
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	appLogger := logger.FromZerolog(log.Logger)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Events are best-effort: the engine runs without a broker.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redis.NewRedisBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &log.Logger)
		if err != nil {
			appLogger.Warn("redis unavailable, events disabled", "error", err.Error())
			broker = nil
		} else {
			defer broker.Close()
		}
	}

	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	takenDoseRepo := postgres.NewTakenDoseRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)
	patientRepo := postgres.NewPatientRepository(db)

	registry := prometheus.NewRegistry()
	m := metrics.New("medminder")
	m.Register(registry)

	var n notifier.Notifier
	if cfg.SMS.GatewayURL != "" {
		n = notifier.NewSMSGateway(notifier.SMSConfig{
			GatewayURL: cfg.SMS.GatewayURL,
			APIToken:   cfg.SMS.APIToken,
			Sender:     cfg.SMS.Sender,
			Timeout:    cfg.SMS.Timeout,
		}, appLogger)
	} else {
		appLogger.Warn("no SMS gateway configured, logging reminders instead")
		n = notifier.NewLogNotifier(appLogger)
	}

	matcher := adherence.NewMatcher(takenDoseRepo)
	reminderSvc := reminder.NewService(
		prescriptionRepo,
		reminderRepo,
		patientRepo,
		matcher,
		n,
		broker,
		appLogger,
		m,
		cfg.Reminder.GracePeriod,
	)

	reminderWorker := worker.NewReminderWorker(reminderSvc, cfg.Reminder.TickInterval, appLogger)
	retentionWorker := worker.NewRetentionWorker(prescriptionRepo, cfg.Retention.SweepInterval, appLogger, m)

	setupHealthAndMetrics(cfg.Health.Port, appLogger, registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down...")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		reminderWorker.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		retentionWorker.Start(ctx)
	}()

	wg.Wait()

	// Give in-flight logs a moment to flush.
	time.Sleep(100 * time.Millisecond)
}
