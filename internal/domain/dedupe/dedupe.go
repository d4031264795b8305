// Package dedupe defines the interface for notification idempotency tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records (volunteer, event) pairs that have already been notified
// so a batch run does not message the same volunteer twice about the same
// event.
type Deduper interface {
	// SeenAndRecord atomically checks if the pair was seen and records it
	// if not. Returns true if the pair was already seen, false if it was
	// newly recorded. This is the ONLY method for deduplication.
	SeenAndRecord(ctx context.Context, volunteerID, eventID string) bool

	// Unrecord removes a pair from the seen list, allowing a retry. This
	// should only be used when a pair was marked as seen but the
	// notification failed to be recorded.
	Unrecord(ctx context.Context, volunteerID, eventID string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus an insertion-order
// queue. For bounded mode (maxSize > 0) the oldest pairs are evicted first.
// For unbounded mode (maxSize <= 0) pairs accumulate without limit.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, may hold stale keys after Unrecord
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000, // default max size
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	return d
}

func pairKey(volunteerID, eventID string) string {
	return volunteerID + "|" + eventID
}

// SeenAndRecord atomically checks if the pair was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, volunteerID, eventID string) bool {
	key := pairKey(volunteerID, eventID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true // Already seen
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, key)
	}

	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false // Newly recorded
}

// Unrecord removes a pair from the seen list, allowing it to be retried.
// The insertion-order queue keeps the stale key; eviction skips over it.
func (d *inMemoryDeduper) Unrecord(_ context.Context, volunteerID, eventID string) {
	key := pairKey(volunteerID, eventID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		delete(d.seen, key)
		d.size.Add(-1)
	}
}

// evictOldest removes the oldest live pair. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	for len(d.order) > 0 {
		key := d.order[0]
		d.order = d.order[1:]
		if _, exists := d.seen[key]; exists {
			delete(d.seen, key)
			d.size.Add(-1)
			return
		}
	}
}

// Size returns the current number of recorded pairs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
