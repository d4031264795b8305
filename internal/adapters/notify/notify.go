// Package notify records match notifications for volunteers.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/volunteerhub/matchd/internal/domain/dedupe"
	"github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/pkg/logger"
	"github.com/volunteerhub/matchd/pkg/metrics"
)

// Notifier delivers match notifications. Implementations decide the
// transport; the in-memory one just records them for later listing.
type Notifier interface {
	// NotifyMatch records a notification for a match. The boolean reports
	// whether a notification was created; a repeat (volunteer, event) pair
	// is skipped and reports false.
	NotifyMatch(ctx context.Context, match model.MatchResult) (model.Notification, bool, error)

	// ListForUser returns the notifications recorded for a volunteer,
	// oldest first.
	ListForUser(ctx context.Context, userID string) ([]model.Notification, error)
}

// InMemory keeps notifications in memory and suppresses repeats with a
// deduper.
type InMemory struct {
	mu     sync.RWMutex
	byUser map[string][]model.Notification

	deduper dedupe.Deduper
	clock   clockwork.Clock
	logger  logger.Logger
}

// NewInMemory constructs an in-memory notifier.
func NewInMemory(opts ...Option) *InMemory {
	n := &InMemory{
		byUser:  make(map[string][]model.Notification),
		deduper: dedupe.NewInMemoryDeduper(),
		clock:   clockwork.NewRealClock(),
		logger:  logger.Get().Named("notify"),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// NotifyMatch records a notification for a match unless the (volunteer,
// event) pair was already notified.
func (n *InMemory) NotifyMatch(ctx context.Context, match model.MatchResult) (model.Notification, bool, error) {
	if n.deduper.SeenAndRecord(ctx, match.VolunteerID, match.EventID) {
		n.logger.Debug(ctx, "duplicate match notification skipped",
			logger.String("volunteer", match.VolunteerID),
			logger.String("event", match.EventID))
		metrics.RecordNotificationDuplicate()
		return model.Notification{}, false, nil
	}

	notification := model.Notification{
		ID:        uuid.NewString(),
		UserID:    match.VolunteerID,
		EventID:   match.EventID,
		Type:      model.NotificationTypeMatch,
		Message:   fmt.Sprintf("New match: %s (%.1f%% match)", match.EventName, match.Score),
		Read:      false,
		CreatedAt: n.clock.Now().UTC(),
	}

	n.mu.Lock()
	n.byUser[match.VolunteerID] = append(n.byUser[match.VolunteerID], notification)
	n.mu.Unlock()

	n.logger.Info(ctx, "match notification recorded",
		logger.String("volunteer", match.VolunteerID),
		logger.String("event", match.EventID),
		logger.Float64("score", match.Score))
	metrics.RecordNotificationSent()
	return notification, true, nil
}

// ListForUser returns the notifications recorded for a volunteer, oldest
// first.
func (n *InMemory) ListForUser(_ context.Context, userID string) ([]model.Notification, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	stored := n.byUser[userID]
	out := make([]model.Notification, len(stored))
	copy(out, stored)
	return out, nil
}

// Count returns the total number of recorded notifications.
func (n *InMemory) Count(_ context.Context) int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	total := 0
	for _, list := range n.byUser {
		total += len(list)
	}
	return total
}
