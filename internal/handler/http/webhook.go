package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"leadpulse/internal/handler/http/respond"
	"leadpulse/internal/usecase/ingest"
)

// Close-style webhook signature headers.
const (
	signatureHeader = "close-sig-hash"
	timestampHeader = "close-sig-timestamp"
)

// processTimeout bounds the background processing of one webhook payload.
const processTimeout = 30 * time.Second

// SignatureVerifier validates inbound webhook signatures.
type SignatureVerifier interface {
	VerifySignature(body []byte, timestamp, signature string) bool
	SignatureConfigured() bool
}

// WebhookHandler receives CRM webhook deliveries.
//
// Contract with the CRM: after the signature check passes, the handler
// always acknowledges with 200 so the CRM does not retry. Processing
// happens asynchronously and its failures are logged, never surfaced.
type WebhookHandler struct {
	verifier SignatureVerifier
	pipeline ingest.Service
	logger   *slog.Logger

	// process is swapped in tests to run synchronously.
	process func(body []byte)
}

// NewWebhookHandler creates the webhook receiver.
func NewWebhookHandler(verifier SignatureVerifier, pipeline ingest.Service, logger *slog.Logger) *WebhookHandler {
	h := &WebhookHandler{
		verifier: verifier,
		pipeline: pipeline,
		logger:   logger,
	}
	h.process = h.processAsync
	return h
}

// ServeHTTP handles POST /webhook/email-opened.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if h.verifier.SignatureConfigured() {
		signature := r.Header.Get(signatureHeader)
		timestamp := r.Header.Get(timestampHeader)
		if !h.verifier.VerifySignature(body, timestamp, signature) {
			h.logger.Warn("rejecting webhook with invalid signature",
				slog.String("remote_addr", r.RemoteAddr),
				slog.Bool("signature_present", signature != ""))
			respond.Error(w, http.StatusUnauthorized, errors.New("invalid signature"))
			return
		}
	}

	h.process(body)

	respond.JSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// processAsync hands the payload to the pipeline off the request goroutine.
// The acknowledgement must not wait on lead enrichment or notification
// delivery.
func (h *WebhookHandler) processAsync(body []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		if err := h.pipeline.ProcessWebhook(ctx, body); err != nil {
			h.logger.Warn("webhook processing failed", slog.Any("error", err))
		}
	}()
}
