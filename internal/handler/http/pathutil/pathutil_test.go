package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/analytics/by-lead/lead_abc", "/analytics/by-lead/:lead_id"},
		{"/analytics/by-lead/lead_abc/", "/analytics/by-lead/:lead_id"},
		{"/analytics/by-lead/lead_abc?limit=5", "/analytics/by-lead/:lead_id"},
		{"/analytics/summary", "/analytics/summary"},
		{"/health", "/health"},
		{"/webhook/email-opened", "/webhook/email-opened"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractParam(t *testing.T) {
	leadID, err := ExtractParam("/analytics/by-lead/lead_abc", "/analytics/by-lead/")
	if err != nil || leadID != "lead_abc" {
		t.Errorf("ExtractParam = %q, %v", leadID, err)
	}

	if _, err := ExtractParam("/analytics/by-lead/", "/analytics/by-lead/"); err == nil {
		t.Error("want error for empty parameter")
	}
	if _, err := ExtractParam("/analytics/by-lead/a/b", "/analytics/by-lead/"); err == nil {
		t.Error("want error for nested path")
	}
}
