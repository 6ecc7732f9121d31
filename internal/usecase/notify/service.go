// Package notify implements best-effort notification fan-out: one rendered
// message delivered to every configured destination, with per-destination
// failures logged and reported but never propagated to the caller.
package notify

import (
	"context"
	"log/slog"

	"leadpulse/internal/domain/entity"
	"leadpulse/internal/infra/notifier"
)

// DeliveryResult is the explicit outcome of one destination delivery, so
// callers see the "continue anyway" decision instead of a swallowed error.
type DeliveryResult struct {
	Destination string
	Err         error
}

// Succeeded reports whether the delivery reached the destination.
func (r DeliveryResult) Succeeded() bool {
	return r.Err == nil
}

// Service broadcasts notifications to the configured destinations.
type Service interface {
	// NotifyOpen renders an email-open notification and delivers it to
	// every destination matching the optional name filter (all
	// destinations when the filter is empty). The broadcast is
	// best-effort: one result per attempted destination, never an error.
	NotifyOpen(ctx context.Context, ev entity.OpenEvent, destinationName string) []DeliveryResult

	// NotifyText delivers a plain-text notification the same way.
	NotifyText(ctx context.Context, text, destinationName string) []DeliveryResult
}

type service struct {
	destinations []notifier.Destination
	sender       notifier.Sender
	logger       *slog.Logger
}

// NewService creates a fan-out service over the given destinations.
func NewService(destinations []notifier.Destination, sender notifier.Sender, logger *slog.Logger) Service {
	return &service{
		destinations: destinations,
		sender:       sender,
		logger:       logger,
	}
}

// NotifyOpen implements Service.
func (s *service) NotifyOpen(ctx context.Context, ev entity.OpenEvent, destinationName string) []DeliveryResult {
	results := s.broadcast(ctx, RenderOpenEvent(ev), destinationName)
	for _, r := range results {
		if r.Succeeded() {
			continue
		}
		s.logger.Warn("notification delivery failed",
			slog.String("destination", r.Destination),
			slog.String("email_id", ev.EmailID),
			slog.Any("error", r.Err))
	}
	return results
}

// NotifyText implements Service.
func (s *service) NotifyText(ctx context.Context, text, destinationName string) []DeliveryResult {
	results := s.broadcast(ctx, notifier.Message{Text: text}, destinationName)
	for _, r := range results {
		if !r.Succeeded() {
			s.logger.Warn("text notification delivery failed",
				slog.String("destination", r.Destination),
				slog.Any("error", r.Err))
		}
	}
	return results
}

// broadcast delivers one message to every matching destination. A failure
// on one destination never aborts delivery to the others.
func (s *service) broadcast(ctx context.Context, msg notifier.Message, destinationName string) []DeliveryResult {
	results := make([]DeliveryResult, 0, len(s.destinations))
	for _, dest := range s.destinations {
		if destinationName != "" && dest.Name != destinationName {
			continue
		}

		err := s.sender.Send(ctx, dest.URL, msg)
		results = append(results, DeliveryResult{Destination: dest.Name, Err: err})

		recordDelivery(dest.Name, err == nil)
	}
	return results
}
