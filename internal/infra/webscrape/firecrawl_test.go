package webscrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestFirecrawl(serverURL string) *FirecrawlClient {
	c := NewFirecrawlClient("test-key")
	c.baseURL = serverURL
	return c
}

func TestFirecrawl_MapSite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/map" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth = %q", auth)
		}
		_, _ = w.Write([]byte(`{"success":true,"links":["https://acme.example/","https://acme.example/about"]}`))
	}))
	defer server.Close()

	links, err := newTestFirecrawl(server.URL).MapSite(context.Background(), "https://acme.example/")
	if err != nil {
		t.Fatalf("MapSite err=%v", err)
	}
	if len(links) != 2 {
		t.Errorf("links = %v", links)
	}
}

func TestFirecrawl_ScrapePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Acme\n\nWe automate quoting.","metadata":{"title":"Acme Corp"}}}`))
	}))
	defer server.Close()

	page, err := newTestFirecrawl(server.URL).ScrapePage(context.Background(), "https://acme.example/")
	if err != nil {
		t.Fatalf("ScrapePage err=%v", err)
	}
	if page.Title != "Acme Corp" {
		t.Errorf("Title = %q", page.Title)
	}
	if page.Markdown != "# Acme\n\nWe automate quoting." {
		t.Errorf("Markdown = %q", page.Markdown)
	}
}

func TestFirecrawl_ProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer server.Close()

	if _, err := newTestFirecrawl(server.URL).ScrapePage(context.Background(), "https://acme.example/"); err == nil {
		t.Error("want error when provider reports failure")
	}
}

func TestSanitized_StripsNulBytes(t *testing.T) {
	var s Sanitized
	if err := s.UnmarshalJSON([]byte(`"abc\u0000def"`)); err != nil {
		t.Fatalf("UnmarshalJSON err=%v", err)
	}
	if string(s) != "abcdef" {
		t.Errorf("sanitized = %q", string(s))
	}
}
