package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"leadpulse/internal/domain/entity"
	"leadpulse/internal/usecase/ingest"
)

// EventSource supplies recent email-open events, typically the CRM event
// log client.
type EventSource interface {
	RecentEmailOpens(ctx context.Context, lookback time.Duration) ([]entity.OpenEvent, error)
}

// Poller periodically fetches recent opens and pushes them through the
// ingestion pipeline. It is the pull-based alternative to the webhook
// receiver; both paths share the same dedup cache when run in one process.
type Poller struct {
	source   EventSource
	pipeline ingest.Service
	config   WorkerConfig
	metrics  *PollerMetrics
	logger   *slog.Logger
}

// NewPoller creates a poller with the given event source and pipeline.
func NewPoller(source EventSource, pipeline ingest.Service, config WorkerConfig, metrics *PollerMetrics, logger *slog.Logger) *Poller {
	return &Poller{
		source:   source,
		pipeline: pipeline,
		config:   config,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run polls immediately, then on every interval tick until the context is
// cancelled. Individual cycle failures are logged and do not stop the
// schedule; only context cancellation ends the run.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller starting",
		slog.Duration("interval", p.config.PollInterval),
		slog.Duration("lookback", p.config.PollLookback))

	// First cycle runs immediately so a fresh deploy does not wait a full
	// interval before catching up.
	p.runCycle(ctx)

	scheduler := cron.New()
	_, err := scheduler.AddFunc(fmt.Sprintf("@every %s", p.config.PollInterval), func() {
		p.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule poll job: %w", err)
	}

	scheduler.Start()
	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	p.logger.Info("poller stopped")
	return ctx.Err()
}

// runCycle performs one fetch-and-ingest pass.
func (p *Poller) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	events, err := p.source.RecentEmailOpens(ctx, p.config.PollLookback)
	if err != nil {
		p.metrics.RecordRun("failure")
		p.logger.Error("event-log poll failed", slog.Any("error", err))
		return
	}

	notified := 0
	for _, ev := range events {
		if p.pipeline.ProcessEvent(ctx, ev) {
			notified++
		}
	}

	p.metrics.RecordRun("success")
	p.metrics.RecordDuration(time.Since(start).Seconds())
	p.metrics.RecordEventsFetched(len(events))
	p.metrics.RecordLastSuccess()

	p.logger.Info("poll cycle complete",
		slog.Int("fetched", len(events)),
		slog.Int("notified", notified),
		slog.Int("duplicates", len(events)-notified),
		slog.Duration("elapsed", time.Since(start)))
}
