// Package cache provides the in-memory duplicate-suppression cache for
// email-open notifications.
//
// Entries expire after a fixed retention window (24 hours by default), so
// the same email can trigger a fresh notification once the window has
// passed. The cache is process-local and not durable: a restart clears all
// dedup state, which is acceptable because the analytics store remains the
// system of record. Running the webhook receiver and the poller in separate
// processes breaks dedup across them; multi-instance coordination is an
// explicit non-goal.
package cache

import (
	"sync"
	"time"
)

// DefaultRetention is the dedup window applied when no retention is configured.
const DefaultRetention = 24 * time.Hour

// Stats reports diagnostic information about the cache contents.
type Stats struct {
	Size           int           `json:"size"`
	OldestEntryAge time.Duration `json:"oldest_entry_age"`
	Retention      time.Duration `json:"retention"`
}

// EventCache tracks notified email IDs to prevent duplicate notifications.
//
// The check-then-mark sequence in the ingestion pipeline is not atomic: a
// concurrent mark may land between a caller's IsNotified and MarkNotified,
// at worst causing one duplicate notification. That is acceptable under the
// system's best-effort delivery contract.
type EventCache struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	retention time.Duration
	now       func() time.Time
}

// New creates an EventCache with the given retention window.
// A non-positive retention falls back to DefaultRetention.
func New(retention time.Duration) *EventCache {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &EventCache{
		entries:   make(map[string]time.Time),
		retention: retention,
		now:       time.Now,
	}
}

// IsNotified reports whether the email ID was marked within the retention
// window. Expired entries are purged first, so this query mutates internal
// state as a side effect.
func (c *EventCache) IsNotified(emailID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()
	_, ok := c.entries[emailID]
	return ok
}

// MarkNotified records the current time against the email ID. Re-marking an
// existing ID resets its expiry clock.
func (c *EventCache) MarkNotified(emailID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[emailID] = c.now()
}

// Stats returns the current size and the age of the oldest live entry.
func (c *EventCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()

	var oldest time.Time
	for _, marked := range c.entries {
		if oldest.IsZero() || marked.Before(oldest) {
			oldest = marked
		}
	}

	stats := Stats{Size: len(c.entries), Retention: c.retention}
	if !oldest.IsZero() {
		stats.OldestEntryAge = c.now().Sub(oldest)
	}
	return stats
}

// Clear removes all entries.
func (c *EventCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]time.Time)
}

// purgeLocked removes entries older than the retention window.
// Callers must hold c.mu.
func (c *EventCache) purgeLocked() {
	cutoff := c.now().Add(-c.retention)
	for id, marked := range c.entries {
		if marked.Before(cutoff) {
			delete(c.entries, id)
		}
	}
}
