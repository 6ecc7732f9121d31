package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"leadpulse/internal/domain/entity"
	"leadpulse/internal/infra/notifier"
)

// mockSender records every Send call and fails for URLs listed in failFor.
type mockSender struct {
	sent    []sentCall
	failFor map[string]error
}

type sentCall struct {
	url string
	msg notifier.Message
}

func (m *mockSender) Send(_ context.Context, webhookURL string, msg notifier.Message) error {
	m.sent = append(m.sent, sentCall{url: webhookURL, msg: msg})
	if err, ok := m.failFor[webhookURL]; ok {
		return err
	}
	return nil
}

func testEvent() entity.OpenEvent {
	return entity.OpenEvent{
		EmailID:    "em_1",
		LeadID:     "lead_1",
		LeadName:   "Acme Corp",
		Subject:    "Intro call",
		Recipient:  "a@example.com",
		OpensCount: 2,
		OpenedAt:   time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func newTestService(sender notifier.Sender, destinations ...notifier.Destination) Service {
	return NewService(destinations, sender, slog.New(slog.DiscardHandler))
}

func TestNotifyOpen_FanOutIndependence(t *testing.T) {
	sender := &mockSender{failFor: map[string]error{
		"https://hooks.example/x": errors.New("connection refused"),
	}}
	svc := newTestService(sender,
		notifier.Destination{Name: "x", URL: "https://hooks.example/x"},
		notifier.Destination{Name: "y", URL: "https://hooks.example/y"},
	)

	results := svc.NotifyOpen(context.Background(), testEvent(), "")

	// y must receive the payload despite x failing, and the call itself
	// never raises.
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Destination != "x" || results[0].Succeeded() {
		t.Errorf("x result = %+v, want failure", results[0])
	}
	if results[1].Destination != "y" || !results[1].Succeeded() {
		t.Errorf("y result = %+v, want success", results[1])
	}
	if len(sender.sent) != 2 {
		t.Errorf("sends = %d, want 2", len(sender.sent))
	}
}

func TestNotifyOpen_DestinationFilter(t *testing.T) {
	sender := &mockSender{}
	svc := newTestService(sender,
		notifier.Destination{Name: "sales", URL: "https://hooks.example/sales"},
		notifier.Destination{Name: "founders", URL: "https://hooks.example/founders"},
	)

	results := svc.NotifyOpen(context.Background(), testEvent(), "sales")

	if len(results) != 1 || results[0].Destination != "sales" {
		t.Fatalf("results = %+v, want only sales", results)
	}
	if len(sender.sent) != 1 || sender.sent[0].url != "https://hooks.example/sales" {
		t.Errorf("sent = %+v, want only the sales URL", sender.sent)
	}
}

func TestNotifyText(t *testing.T) {
	sender := &mockSender{}
	svc := newTestService(sender, notifier.Destination{Name: "default", URL: "https://hooks.example/d"})

	results := svc.NotifyText(context.Background(), "poller started", "")

	if len(results) != 1 || !results[0].Succeeded() {
		t.Fatalf("results = %+v, want one success", results)
	}
	if sender.sent[0].msg.Text != "poller started" {
		t.Errorf("message text = %q", sender.sent[0].msg.Text)
	}
}

func TestRenderOpenEvent(t *testing.T) {
	ev := testEvent()
	msg := RenderOpenEvent(ev)

	if msg.Title != "📧 Email Opened" {
		t.Errorf("title = %q", msg.Title)
	}
	if msg.Link != "https://app.close.com/lead/lead_1/" {
		t.Errorf("link = %q", msg.Link)
	}
	if msg.Footer != "Email ID: em_1" {
		t.Errorf("footer = %q", msg.Footer)
	}

	fields := map[string]string{}
	for _, f := range msg.Fields {
		fields[f.Name] = f.Value
	}
	if fields["Lead"] != "Acme Corp" || fields["Opens Count"] != "2" {
		t.Errorf("fields = %v", fields)
	}
	if fields["Opened At"] != "2025-01-01 10:00:00" {
		t.Errorf("Opened At = %q", fields["Opened At"])
	}
}

func TestRenderOpenEvent_TruncatesSubject(t *testing.T) {
	ev := testEvent()
	ev.Subject = strings.Repeat("a", 150)

	msg := RenderOpenEvent(ev)

	for _, f := range msg.Fields {
		if f.Name != "Subject" {
			continue
		}
		if len(f.Value) != maxSubjectLength {
			t.Errorf("subject length = %d, want %d", len(f.Value), maxSubjectLength)
		}
		if !strings.HasSuffix(f.Value, "...") {
			t.Errorf("subject %q missing ellipsis marker", f.Value)
		}
		return
	}
	t.Fatal("no Subject field rendered")
}
