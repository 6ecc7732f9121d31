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

	_ "github.com/jackc/pgx/v5/stdlib"

	pgRepo "leadpulse/internal/infra/adapter/persistence/postgres"
	"leadpulse/internal/infra/cache"
	"leadpulse/internal/infra/crm"
	"leadpulse/internal/infra/db"
	"leadpulse/internal/infra/notifier"
	"leadpulse/internal/observability/logging"
	"leadpulse/internal/pkg/config"
	"leadpulse/internal/repository"
	"leadpulse/internal/usecase/ingest"
	"leadpulse/internal/usecase/notify"

	hhttp "leadpulse/internal/handler/http"
	"leadpulse/internal/handler/http/analytics"
	"leadpulse/internal/handler/http/requestid"
)

func main() {
	logger := logging.NewLogger()

	crmClient := initCRMClient(logger)
	destinations := initDestinations(logger)
	notifySvc := notify.NewService(destinations, notifier.NewDiscordSender(notifier.DefaultDiscordConfig()), logger)
	eventCache := initCache(logger)

	database, repo := initDatabase(logger)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	pipeline := ingest.NewService(eventCache, repo, notifySvc, crmClient, logger)

	flags := hhttp.ConfigFlags{
		CRMConfigured:           os.Getenv("CLOSE_API_KEY") != "",
		WebhookSecretConfigured: crmClient.SignatureConfigured(),
		DatabaseConfigured:      database != nil,
		Destinations:            len(destinations),
	}
	handler := setupRoutes(logger, crmClient, pipeline, notifySvc, eventCache, database, repo, flags)

	runServer(logger, handler)
}

// initCRMClient builds the CRM API client from environment configuration.
// A missing API key disables lead enrichment and the poll path but the
// webhook path still works, so it is a warning rather than fatal.
func initCRMClient(logger *slog.Logger) *crm.Client {
	apiKey := os.Getenv("CLOSE_API_KEY")
	if apiKey == "" {
		logger.Warn("CLOSE_API_KEY not set, lead enrichment disabled")
	}
	return crm.NewClient(crm.Config{
		APIKey:        apiKey,
		BaseURL:       config.LoadEnvString("CLOSE_BASE_URL", "https://api.close.com/api/v1"),
		WebhookSecret: os.Getenv("CLOSE_WEBHOOK_SECRET"),
	}, logger)
}

// initDestinations loads notification destinations; the server is useless
// without at least one.
func initDestinations(logger *slog.Logger) []notifier.Destination {
	destinations, err := notifier.LoadDestinations(
		os.Getenv("DISCORD_CONFIG_FILE"),
		os.Getenv("DISCORD_WEBHOOK_URL"),
	)
	if err != nil {
		logger.Error("failed to load notification destinations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("notification destinations loaded", slog.Int("count", len(destinations)))
	return destinations
}

func initCache(logger *slog.Logger) *cache.EventCache {
	return cache.New(cache.LoadRetention(logger))
}

// initDatabase opens the analytics store when DATABASE_URL is set and runs
// migrations. Without it the server runs notification-only.
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

func getVersion() string {
	if version := os.Getenv("VERSION"); version != "" {
		return version
	}
	return "dev"
}

// setupRoutes registers all HTTP routes and wraps them in the middleware
// chain.
func setupRoutes(
	logger *slog.Logger,
	crmClient *crm.Client,
	pipeline ingest.Service,
	notifySvc notify.Service,
	eventCache *cache.EventCache,
	database *sql.DB,
	repo repository.OpenEventRepository,
	flags hhttp.ConfigFlags,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/webhook/closeio", hhttp.NewWebhookHandler(crmClient, pipeline, logger))

	health := &hhttp.HealthHandler{DB: database, Flags: flags, Version: getVersion()}
	mux.Handle("GET /{$}", health)
	mux.Handle("GET /health", health)
	mux.Handle("GET /stats", &hhttp.StatsHandler{Cache: eventCache})
	mux.Handle("/test/notification", &hhttp.TestNotificationHandler{Notifier: notifySvc})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	if repo != nil {
		analytics.Register(mux, analytics.NewHandler(repo))
	}

	var handler http.Handler = mux
	handler = hhttp.LimitRequestBody(1 << 20)(handler)
	handler = hhttp.MetricsMiddleware(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = requestid.Middleware(handler)
	return handler
}

// runServer starts the HTTP server and blocks until shutdown completes.
func runServer(logger *slog.Logger, handler http.Handler) {
	addr := ":" + config.LoadEnvString("API_PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
