package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pgRepo "leadpulse/internal/infra/adapter/persistence/postgres"
	"leadpulse/internal/infra/cache"
	"leadpulse/internal/infra/crm"
	"leadpulse/internal/infra/db"
	"leadpulse/internal/infra/notifier"
	"leadpulse/internal/infra/worker"
	"leadpulse/internal/observability/logging"
	"leadpulse/internal/pkg/config"
	"leadpulse/internal/repository"
	"leadpulse/internal/usecase/ingest"
	"leadpulse/internal/usecase/notify"
)

func main() {
	logger := logging.NewLogger()

	workerConfig := worker.LoadConfigFromEnv(logger)
	logger.Info("worker configuration loaded",
		slog.Duration("poll_interval", workerConfig.PollInterval),
		slog.Duration("poll_lookback", workerConfig.PollLookback),
		slog.Int("health_port", workerConfig.HealthPort))

	crmClient := initCRMClient(logger)
	notifySvc := initNotifier(logger)

	database, repo := initDatabase(logger)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	pipeline := ingest.NewService(cache.New(cache.LoadRetention(logger)), repo, notifySvc, crmClient, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthServer := worker.NewHealthServer(fmt.Sprintf(":%d", workerConfig.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	startMetricsServer(ctx, logger)

	if workerConfig.StartupNotice {
		notifySvc.NotifyText(ctx, "Email open poller started", "")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutdown signal received")
		cancel()
	}()

	poller := worker.NewPoller(crmClient, pipeline, workerConfig, worker.NewPollerMetrics(), logger)
	healthServer.SetReady(true)

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("poller stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// initCRMClient builds the CRM client. The poller cannot work without an
// API key, so a missing one is fatal here unlike in the API server.
func initCRMClient(logger *slog.Logger) *crm.Client {
	apiKey := os.Getenv("CLOSE_API_KEY")
	if apiKey == "" {
		logger.Error("CLOSE_API_KEY must be set for the poller")
		os.Exit(1)
	}
	return crm.NewClient(crm.Config{
		APIKey:  apiKey,
		BaseURL: config.LoadEnvString("CLOSE_BASE_URL", "https://api.close.com/api/v1"),
	}, logger)
}

// initDatabase opens the analytics store when DATABASE_URL is set, the
// same as the API server, so polled events are persisted as well as
// notified. Without it the poller runs notification-only.
func initDatabase(logger *slog.Logger) (*sql.DB, repository.OpenEventRepository) {
	if os.Getenv("DATABASE_URL") == "" {
		logger.Warn("DATABASE_URL not set, analytics persistence disabled")
		return nil, nil
	}

	database := db.Open()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Migrate(ctx, database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database, pgRepo.NewOpenEventRepo(database)
}

func initNotifier(logger *slog.Logger) notify.Service {
	destinations, err := notifier.LoadDestinations(
		os.Getenv("DISCORD_CONFIG_FILE"),
		os.Getenv("DISCORD_WEBHOOK_URL"),
	)
	if err != nil {
		logger.Error("failed to load notification destinations", slog.Any("error", err))
		os.Exit(1)
	}
	return notify.NewService(destinations, notifier.NewDiscordSender(notifier.DefaultDiscordConfig()), logger)
}
