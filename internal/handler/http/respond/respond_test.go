package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"status": "received"})

	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "received" {
		t.Errorf("body = %v", body)
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		err      error
		wantBody string
	}{
		{
			name:     "validation error passes through",
			code:     http.StatusBadRequest,
			err:      errors.New("start_date is required"),
			wantBody: "start_date is required",
		},
		{
			name:     "not found passes through",
			code:     http.StatusNotFound,
			err:      errors.New("lead not found"),
			wantBody: "lead not found",
		},
		{
			name:     "internal detail is masked",
			code:     http.StatusInternalServerError,
			err:      errors.New("pq: connection to postgres://user:hunter2@db failed"),
			wantBody: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SafeError(rec, tt.code, tt.err)

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantBody {
				t.Errorf("error = %q, want %q", body["error"], tt.wantBody)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"key sk-ant-abc123-def rejected", "key sk-ant-**** rejected"},
		{"key sk-1234567890abcdef rejected", "key sk-**** rejected"},
		{"dial postgres://app:secretpw@db:5432 failed", "dial postgres://app:****@db:5432 failed"},
		{"plain message", "plain message"},
	}

	for _, tt := range tests {
		if got := SanitizeError(errors.New(tt.in)); got != tt.want {
			t.Errorf("SanitizeError(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
