// Package ingest implements the email-open ingestion pipeline: normalize,
// dedup, enrich, notify, and record. Both the webhook push path and the
// poller pull path funnel into the same pipeline.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"leadpulse/internal/domain/entity"
	"leadpulse/internal/infra/cache"
	"leadpulse/internal/infra/crm"
	"leadpulse/internal/repository"
	"leadpulse/internal/usecase/notify"
)

// LeadEnricher resolves lead display names, best-effort.
type LeadEnricher interface {
	LeadDisplayName(ctx context.Context, leadID string) string
}

// Service runs the ingestion pipeline for incoming open events.
type Service interface {
	// ProcessWebhook handles a raw webhook body. It never returns an
	// error for payloads that are merely irrelevant; only undecodable
	// bodies are reported, and even those must not fail the webhook
	// acknowledgement.
	ProcessWebhook(ctx context.Context, body []byte) error

	// ProcessEvent runs one canonical event through the pipeline and
	// reports whether a notification was dispatched (false means the
	// event was a duplicate).
	ProcessEvent(ctx context.Context, ev entity.OpenEvent) bool
}

type service struct {
	cache    *cache.EventCache
	repo     repository.OpenEventRepository
	notifier notify.Service
	enricher LeadEnricher
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates the ingestion pipeline service. The repository may be
// nil when analytics persistence is disabled.
func NewService(
	eventCache *cache.EventCache,
	repo repository.OpenEventRepository,
	notifier notify.Service,
	enricher LeadEnricher,
	logger *slog.Logger,
) Service {
	return &service{
		cache:    eventCache,
		repo:     repo,
		notifier: notifier,
		enricher: enricher,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *service) ProcessWebhook(ctx context.Context, body []byte) error {
	ev, ok, err := crm.ParseWebhookEvent(body)
	if err != nil {
		recordIngest("webhook", "malformed")
		s.logger.Warn("ignoring malformed webhook payload", slog.Any("error", err))
		return err
	}
	if !ok {
		recordIngest("webhook", "filtered")
		return nil
	}

	if ev.LeadName == "" && s.enricher != nil {
		ev.LeadName = s.enricher.LeadDisplayName(ctx, ev.LeadID)
	}

	s.process(ctx, "webhook", ev)
	return nil
}

func (s *service) ProcessEvent(ctx context.Context, ev entity.OpenEvent) bool {
	return s.process(ctx, "poll", ev)
}

// process runs the shared dedup/notify/record tail of the pipeline. All
// downstream failures are logged and swallowed: a notification or storage
// error must never propagate back to the event source.
func (s *service) process(ctx context.Context, source string, ev entity.OpenEvent) bool {
	if s.cache.IsNotified(ev.EmailID) {
		recordIngest(source, "duplicate")
		s.logger.Debug("skipping already-notified email",
			slog.String("email_id", ev.EmailID))
		return false
	}

	if ev.LeadName == "" {
		ev.LeadName = crm.UnknownLeadName
	}

	results := s.notifier.NotifyOpen(ctx, ev, "")
	delivered := 0
	for _, r := range results {
		if r.Succeeded() {
			delivered++
		}
	}

	notifiedAt := s.now()
	s.cache.MarkNotified(ev.EmailID)
	recordIngest(source, "notified")

	s.logger.Info("email open processed",
		slog.String("email_id", ev.EmailID),
		slog.String("lead_id", ev.LeadID),
		slog.String("lead_name", ev.LeadName),
		slog.Int("opens_count", ev.OpensCount),
		slog.Int("delivered", delivered),
		slog.Int("destinations", len(results)))

	if s.repo != nil {
		record := entity.NewOpenRecord(ev, notifiedAt)
		if err := s.repo.Append(ctx, &record); err != nil {
			recordIngest(source, "store_failed")
			s.logger.Error("failed to record open event",
				slog.String("email_id", ev.EmailID),
				slog.Any("error", err))
		}
	}
	return true
}
