// Package distcache implements the volunteer-to-event distance cache.
//
// The cache stores one row per (subject, target) pair and treats rows older
// than the TTL as gone: reads evict them on the spot, and a cleanup sweep
// removes them in bulk. Store backends may expire rows on their own as
// housekeeping, but freshness decisions always happen here.
package distcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/pkg/logger"
	"github.com/volunteerhub/matchd/pkg/metrics"
)

// DefaultTTL keeps entries fresh for a day, measured from the moment they
// were stored.
const DefaultTTL = 24 * time.Hour

const keyBytes = 16

// Key builds the canonical key for an address pair. Both addresses are
// lowercased and trimmed so formatting differences collapse, then joined
// with "|" and hashed. Origin and destination keep their roles: swapping
// them produces a different key.
func Key(origin, destination string) string {
	combined := normalizeAddress(origin) + "|" + normalizeAddress(destination)
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:keyBytes])
}

// Entry is one cached distance row.
type Entry struct {
	SubjectID  string               // volunteer the trip starts from
	TargetID   string               // event the trip ends at
	Key        string               // canonical address-pair key
	Result     model.DistanceResult // resolved distance payload
	ComputedAt time.Time            // upsert time, drives expiry
}

// Store persists entries under an opaque key. Implementations may drop
// expired rows on their own; the cache re-checks freshness on every read.
type Store interface {
	Load(ctx context.Context, key string) (Entry, bool, error)
	Save(ctx context.Context, key string, entry Entry) error
	Remove(ctx context.Context, key string) error

	// Entries snapshots the live rows in no particular order.
	Entries(ctx context.Context) ([]Entry, error)
	Len(ctx context.Context) int
	Close(ctx context.Context) error
}

// Cache applies TTL and upsert semantics on top of a Store.
type Cache struct {
	store  Store
	ttl    time.Duration
	clock  clockwork.Clock
	logger logger.Logger
}

// New creates a distance cache backed by store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		ttl:    DefaultTTL,
		clock:  clockwork.NewRealClock(),
		logger: logger.Get().Named("distcache"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TTL returns the freshness window applied to entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached entry for a (subject, target) pair. Expired rows
// are evicted on the spot and reported as a miss.
func (c *Cache) Get(ctx context.Context, subjectID, targetID string) (Entry, bool) {
	key := pairKey(subjectID, targetID)

	entry, ok, err := c.store.Load(ctx, key)
	if err != nil {
		c.logger.Error(ctx, "cache load failed", logger.String("key", key), logger.Error(err))
		metrics.RecordCacheMiss()
		return Entry{}, false
	}
	if !ok {
		metrics.RecordCacheMiss()
		return Entry{}, false
	}

	if c.clock.Now().Sub(entry.ComputedAt) >= c.ttl {
		c.logger.Debug(ctx, "cache entry expired",
			logger.String("subject", subjectID),
			logger.String("target", targetID))
		if err := c.store.Remove(ctx, key); err != nil {
			c.logger.Error(ctx, "evicting expired entry failed", logger.Error(err))
		}
		metrics.RecordCacheExpired()
		metrics.RecordCacheMiss()
		return Entry{}, false
	}

	metrics.RecordCacheHit()
	return entry, true
}

// Put upserts the resolved distance for a (subject, target) pair and
// returns the stored row. Store failures are logged and swallowed so a
// broken cache never costs the caller its freshly resolved result.
func (c *Cache) Put(ctx context.Context, subjectID, targetID string, result model.DistanceResult) Entry {
	entry := Entry{
		SubjectID:  subjectID,
		TargetID:   targetID,
		Key:        Key(result.Origin, result.Destination),
		Result:     result,
		ComputedAt: c.clock.Now().UTC(),
	}

	if err := c.store.Save(ctx, pairKey(subjectID, targetID), entry); err != nil {
		c.logger.Error(ctx, "cache save failed",
			logger.String("subject", subjectID),
			logger.String("target", targetID),
			logger.Error(err))
		metrics.RecordCachePutFailure()
		return entry
	}

	metrics.UpdateCacheSize(c.store.Len(ctx))
	return entry
}

// Delete removes the row for a (subject, target) pair.
func (c *Cache) Delete(ctx context.Context, subjectID, targetID string) error {
	return c.store.Remove(ctx, pairKey(subjectID, targetID))
}

// Cleanup removes entries older than maxAge and returns how many rows were
// dropped. A maxAge of zero or less falls back to the cache TTL.
func (c *Cache) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = c.ttl
	}
	cutoff := c.clock.Now().Add(-maxAge)

	entries, err := c.store.Entries(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.ComputedAt.Before(cutoff) {
			if err := c.store.Remove(ctx, pairKey(entry.SubjectID, entry.TargetID)); err != nil {
				c.logger.Error(ctx, "cleanup remove failed", logger.Error(err))
				continue
			}
			removed++
		}
	}

	metrics.RecordCacheCleanupRemoved(removed)
	metrics.UpdateCacheSize(c.store.Len(ctx))
	c.logger.Info(ctx, "cache cleanup finished",
		logger.Int("removed", removed),
		logger.Duration("maxAge", maxAge))
	return removed, nil
}

// ListForSubject returns every stored row for a subject, stale or not.
func (c *Cache) ListForSubject(ctx context.Context, subjectID string) ([]Entry, error) {
	return c.list(ctx, func(e Entry) bool { return e.SubjectID == subjectID })
}

// ListForTarget returns every stored row for a target, stale or not.
func (c *Cache) ListForTarget(ctx context.Context, targetID string) ([]Entry, error) {
	return c.list(ctx, func(e Entry) bool { return e.TargetID == targetID })
}

// Size returns the number of stored rows.
func (c *Cache) Size(ctx context.Context) int {
	return c.store.Len(ctx)
}

func (c *Cache) list(ctx context.Context, keep func(Entry) bool) ([]Entry, error) {
	entries, err := c.store.Entries(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func pairKey(subjectID, targetID string) string {
	return subjectID + "|" + targetID
}

func normalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
