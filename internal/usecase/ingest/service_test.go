package ingest

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"leadpulse/internal/domain/entity"
	"leadpulse/internal/infra/cache"
	"leadpulse/internal/repository"
	"leadpulse/internal/usecase/notify"
)

type mockNotifier struct {
	opens []entity.OpenEvent
	texts []string
}

func (m *mockNotifier) NotifyOpen(_ context.Context, ev entity.OpenEvent, _ string) []notify.DeliveryResult {
	m.opens = append(m.opens, ev)
	return []notify.DeliveryResult{{Destination: "default"}}
}

func (m *mockNotifier) NotifyText(_ context.Context, text, _ string) []notify.DeliveryResult {
	m.texts = append(m.texts, text)
	return []notify.DeliveryResult{{Destination: "default"}}
}

type mockRepo struct {
	repository.OpenEventRepository
	appended  []*entity.OpenRecord
	appendErr error
}

func (m *mockRepo) Append(_ context.Context, record *entity.OpenRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, record)
	return nil
}

type mockEnricher struct {
	names map[string]string
}

func (m *mockEnricher) LeadDisplayName(_ context.Context, leadID string) string {
	if name, ok := m.names[leadID]; ok {
		return name
	}
	return "Unknown"
}

func newTestService(repo repository.OpenEventRepository, sink *mockNotifier) Service {
	return NewService(
		cache.New(cache.DefaultRetention),
		repo,
		sink,
		&mockEnricher{names: map[string]string{"lead_1": "Acme Corp"}},
		slog.New(slog.DiscardHandler),
	)
}

const openWebhookBody = `{
	"event": {
		"object_type": "activity.email",
		"action": "updated",
		"changed_fields": ["opens"],
		"data": {
			"id": "em_1",
			"lead_id": "lead_1",
			"subject": "Intro call",
			"to": [{"email": "a@example.com"}],
			"opens": [
				{"opened_at": "2024-12-31T09:00:00"},
				{"opened_at": "2025-01-01T10:00:00"}
			]
		}
	}
}`

func TestProcessWebhook_EndToEnd(t *testing.T) {
	repo := &mockRepo{}
	sink := &mockNotifier{}
	svc := newTestService(repo, sink)

	if err := svc.ProcessWebhook(context.Background(), []byte(openWebhookBody)); err != nil {
		t.Fatalf("ProcessWebhook err=%v", err)
	}

	if len(sink.opens) != 1 {
		t.Fatalf("notifications = %d, want 1", len(sink.opens))
	}
	ev := sink.opens[0]
	if ev.EmailID != "em_1" || ev.LeadName != "Acme Corp" || ev.OpensCount != 2 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Recipient != "a@example.com" {
		t.Errorf("recipient = %q", ev.Recipient)
	}

	if len(repo.appended) != 1 {
		t.Fatalf("records = %d, want 1", len(repo.appended))
	}
	rec := repo.appended[0]
	if rec.DateOpened != "2025-01-01" || rec.HourOpened != 10 {
		t.Errorf("derived date fields = %+v", rec)
	}
	if rec.DayOfWeek != 2 { // 2025-01-01 is a Wednesday
		t.Errorf("DayOfWeek = %d, want 2", rec.DayOfWeek)
	}
}

func TestProcessWebhook_DedupSuppressesRedelivery(t *testing.T) {
	repo := &mockRepo{}
	sink := &mockNotifier{}
	svc := newTestService(repo, sink)

	for i := 0; i < 3; i++ {
		if err := svc.ProcessWebhook(context.Background(), []byte(openWebhookBody)); err != nil {
			t.Fatalf("ProcessWebhook #%d err=%v", i, err)
		}
	}

	if len(sink.opens) != 1 {
		t.Errorf("notifications = %d, want 1 despite redelivery", len(sink.opens))
	}
	if len(repo.appended) != 1 {
		t.Errorf("records = %d, want 1", len(repo.appended))
	}
}

func TestProcessWebhook_FiltersIrrelevantPayloads(t *testing.T) {
	bodies := map[string]string{
		"other object type": `{"event": {"object_type": "lead", "action": "updated", "changed_fields": ["opens"], "data": {"id": "x", "opens": [{"opened_at": "2025-01-01T10:00:00"}]}}}`,
		"no opens change":   `{"event": {"object_type": "activity.email", "action": "updated", "changed_fields": ["status"], "data": {"id": "x", "opens": [{"opened_at": "2025-01-01T10:00:00"}]}}}`,
		"empty opens":       `{"event": {"object_type": "activity.email", "action": "updated", "changed_fields": ["opens"], "data": {"id": "x", "opens": []}}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			sink := &mockNotifier{}
			svc := newTestService(&mockRepo{}, sink)

			if err := svc.ProcessWebhook(context.Background(), []byte(body)); err != nil {
				t.Fatalf("ProcessWebhook err=%v", err)
			}
			if len(sink.opens) != 0 {
				t.Errorf("notifications = %d, want 0", len(sink.opens))
			}
		})
	}
}

func TestProcessWebhook_MalformedBody(t *testing.T) {
	sink := &mockNotifier{}
	svc := newTestService(&mockRepo{}, sink)

	err := svc.ProcessWebhook(context.Background(), []byte("not json"))
	if err == nil {
		t.Fatal("want error for undecodable body")
	}
	if len(sink.opens) != 0 {
		t.Errorf("notifications = %d, want 0", len(sink.opens))
	}
}

func TestProcessEvent_AppendsRecord(t *testing.T) {
	repo := &mockRepo{}
	sink := &mockNotifier{}
	svc := newTestService(repo, sink)

	notified := svc.ProcessEvent(context.Background(), entity.OpenEvent{
		EmailID:    "em_poll_1",
		LeadID:     "lead_1",
		LeadName:   "Acme Corp",
		Subject:    "Intro call",
		Recipient:  "a@example.com",
		OpensCount: 3,
		OpenedAt:   time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	})

	if !notified {
		t.Fatal("want notified=true")
	}
	if len(repo.appended) != 1 {
		t.Fatalf("appended = %d, want 1: polled events must be persisted", len(repo.appended))
	}
	rec := repo.appended[0]
	if rec.EmailID != "em_poll_1" || rec.OpensCount != 3 {
		t.Errorf("record = %+v", rec)
	}
	if rec.DateOpened != "2025-01-01" || rec.HourOpened != 10 || rec.DayOfWeek != 2 {
		t.Errorf("derived fields = %q/%d/%d", rec.DateOpened, rec.HourOpened, rec.DayOfWeek)
	}
}

func TestProcessEvent_StorageFailureDoesNotBlockNotification(t *testing.T) {
	repo := &mockRepo{appendErr: errors.New("db down")}
	sink := &mockNotifier{}
	svc := newTestService(repo, sink)

	notified := svc.ProcessEvent(context.Background(), entity.OpenEvent{
		EmailID:    "em_9",
		LeadID:     "lead_1",
		LeadName:   "Acme Corp",
		OpensCount: 1,
		OpenedAt:   time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	})

	if !notified {
		t.Fatal("want notified=true despite storage failure")
	}
	if len(sink.opens) != 1 {
		t.Errorf("notifications = %d, want 1", len(sink.opens))
	}
}

func TestProcessEvent_NilRepository(t *testing.T) {
	sink := &mockNotifier{}
	svc := NewService(cache.New(0), nil, sink, nil, slog.New(slog.DiscardHandler))

	notified := svc.ProcessEvent(context.Background(), entity.OpenEvent{
		EmailID:  "em_2",
		LeadID:   "lead_2",
		OpenedAt: time.Now(),
	})

	if !notified {
		t.Fatal("want notified=true with persistence disabled")
	}
	if sink.opens[0].LeadName != "Unknown" {
		t.Errorf("lead name = %q, want Unknown sentinel", sink.opens[0].LeadName)
	}
}
