package extractor

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type stubClient struct {
	name  string
	reply string
	err   error
	calls int
}

func (s *stubClient) Name() string  { return s.name }
func (s *stubClient) Model() string { return s.name + "-model" }

func (s *stubClient) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func testSchema() *Schema {
	return &Schema{
		Name:        "company_overview",
		Description: "Basic facts about a company.",
		Fields: []SchemaField{
			{Name: "company_name", Type: "string", Required: true},
			{Name: "industry", Type: "string"},
		},
	}
}

func TestExtract_FirstProviderWins(t *testing.T) {
	primary := &stubClient{name: "anthropic", reply: `{"company_name":"Acme","industry":"Manufacturing"}`}
	fallback := &stubClient{name: "openai", reply: `{}`}

	svc := NewService([]ModelClient{primary, fallback}, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	result, err := svc.Extract(context.Background(), Request{
		CompanyName: "Acme",
		URL:         "https://acme.example",
		Content:     "Acme builds manufacturing software.",
		Schema:      testSchema(),
	})
	if err != nil {
		t.Fatalf("Extract err=%v", err)
	}

	if result.Model != "anthropic-model" {
		t.Errorf("Model = %q", result.Model)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times, want 0", fallback.calls)
	}
	want := map[string]any{"company_name": "Acme", "industry": "Manufacturing"}
	if diff := cmp.Diff(want, result.Extracted); diff != "" {
		t.Errorf("Extracted mismatch (-want +got):\n%s", diff)
	}
	if result.ExtractedAt != time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) {
		t.Errorf("ExtractedAt = %v", result.ExtractedAt)
	}
}

func TestExtract_FallsBackOnProviderError(t *testing.T) {
	primary := &stubClient{name: "anthropic", err: errors.New("rate limited")}
	fallback := &stubClient{name: "openai", reply: `{"company_name":"Acme"}`}

	svc := NewService([]ModelClient{primary, fallback}, slog.New(slog.DiscardHandler))
	result, err := svc.Extract(context.Background(), Request{
		Content: "Acme builds manufacturing software.",
		Schema:  testSchema(),
	})
	if err != nil {
		t.Fatalf("Extract err=%v", err)
	}
	if result.Model != "openai-model" {
		t.Errorf("Model = %q", result.Model)
	}
}

func TestExtract_FallsBackOnUnparseableReply(t *testing.T) {
	primary := &stubClient{name: "anthropic", reply: "I cannot help with that."}
	fallback := &stubClient{name: "openai", reply: `{"company_name":"Acme"}`}

	svc := NewService([]ModelClient{primary, fallback}, slog.New(slog.DiscardHandler))
	result, err := svc.Extract(context.Background(), Request{
		Content: "content",
		Schema:  testSchema(),
	})
	if err != nil {
		t.Fatalf("Extract err=%v", err)
	}
	if result.Model != "openai-model" {
		t.Errorf("Model = %q", result.Model)
	}
}

func TestExtract_AllProvidersFail(t *testing.T) {
	svc := NewService([]ModelClient{
		&stubClient{name: "anthropic", err: errors.New("down")},
		&stubClient{name: "openai", err: errors.New("down")},
	}, slog.New(slog.DiscardHandler))

	if _, err := svc.Extract(context.Background(), Request{Content: "x", Schema: testSchema()}); err == nil {
		t.Error("want error when every provider fails")
	}
}

func TestExtract_RejectsEmptyInput(t *testing.T) {
	svc := NewService(nil, slog.New(slog.DiscardHandler))

	if _, err := svc.Extract(context.Background(), Request{Schema: testSchema()}); err == nil {
		t.Error("want error for empty content")
	}
	if _, err := svc.Extract(context.Background(), Request{Content: "x"}); err == nil {
		t.Error("want error for missing schema")
	}
}
