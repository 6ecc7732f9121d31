package cache

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadRetention(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("unset uses default", func(t *testing.T) {
		t.Setenv("CACHE_RETENTION", "")
		if got := LoadRetention(logger); got != DefaultRetention {
			t.Errorf("retention = %v, want %v", got, DefaultRetention)
		}
	})

	t.Run("valid duration", func(t *testing.T) {
		t.Setenv("CACHE_RETENTION", "48h")
		if got := LoadRetention(logger); got != 48*time.Hour {
			t.Errorf("retention = %v, want 48h", got)
		}
	})

	t.Run("invalid falls back", func(t *testing.T) {
		t.Setenv("CACHE_RETENTION", "-5m")
		if got := LoadRetention(logger); got != DefaultRetention {
			t.Errorf("retention = %v, want %v", got, DefaultRetention)
		}
	})
}
