package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ush214/project-guardian/internal/adapter/earthengine"
	firestoreadapter "github.com/ush214/project-guardian/internal/adapter/firestore"
	"github.com/ush214/project-guardian/internal/adapter/httpadapter"
	kafkaadapter "github.com/ush214/project-guardian/internal/adapter/kafka"
	"github.com/ush214/project-guardian/internal/config"
	"github.com/ush214/project-guardian/internal/domain"
	"github.com/ush214/project-guardian/internal/observability"
	"github.com/ush214/project-guardian/internal/pipeline"
)

func main() {
	// Local development convenience; the file is absent in deployment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := firestoreadapter.New(ctx, cfg.ProjectID, logger)
	if err != nil {
		logger.Error("failed to create firestore store", "error", err)
		os.Exit(1)
	}

	querier := earthengine.NewClient(cfg.EEBaseURL, cfg.EEToken, cfg.EETimeout, cfg.MaxCandidates, logger)

	// Alert fan-out is feature-flagged via KAFKA_BROKERS.
	var alerts pipeline.AlertPublisher
	var publisher *kafkaadapter.Publisher
	if cfg.AlertsEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		alerts = publisher
		logger.Info("kafka alerts enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("kafka alerts disabled")
	}

	orch := pipeline.New(store, querier, store, alerts, logger, metrics, pipeline.Config{
		ReadCollections:  cfg.ReadCollections,
		WriteCollections: cfg.WriteCollections,
		LookbackHours:    cfg.LookbackHours,
		AOIRadiusKm:      cfg.AOIRadiusKm,
		Thresholds: domain.Thresholds{
			CriticalAreaKm2: cfg.CriticalAreaKm2,
			CriticalDistKm:  cfg.CriticalDistKm,
			WarnAreaKm2:     cfg.WarnAreaKm2,
			WarnDistKm:      cfg.WarnDistKm,
		},
		WriteNoDataEvents: cfg.WriteNoDataEvents,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, orch, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("firestore close error", "error", err)
	}

	logger.Info("shutdown complete")
}
