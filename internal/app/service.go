// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/volunteerhub/matchd/internal/adapters/directory"
	"github.com/volunteerhub/matchd/internal/adapters/geo"
	jobqueue "github.com/volunteerhub/matchd/internal/adapters/mq/queue"
	workerpool "github.com/volunteerhub/matchd/internal/adapters/mq/worker"
	"github.com/volunteerhub/matchd/internal/adapters/notify"
	"github.com/volunteerhub/matchd/internal/adapters/repository"
	"github.com/volunteerhub/matchd/internal/domain/distcache"
	"github.com/volunteerhub/matchd/internal/domain/matching"
	"github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/internal/domain/scoring"
	"github.com/volunteerhub/matchd/pkg/logger"
	"github.com/volunteerhub/matchd/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Default service configuration constants.
const (
	defaultQueueSize       = 1024
	defaultResolveTimeout  = 5 * time.Second
	defaultMatchTimeout    = 30 * time.Second
	defaultNotifyLimit     = 3
	defaultNotifyThreshold = 50.0
	shutdownTimeout        = 10 * time.Second
)

// Service implements the API dependencies for the matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	directory   directory.Directory
	store       distcache.Store
	cache       *distcache.Cache
	resolver    geo.Resolver
	coordinator *matching.Coordinator
	jobQueue    jobqueue.Queue
	workerPool  *workerpool.Pool
	notifier    *notify.InMemory

	// Collapses concurrent resolver calls for the same address pair
	resolveGroup singleflight.Group

	// Configuration
	workerCount     int
	queueSize       int
	cacheTTL        time.Duration
	cacheCapacity   uint64
	maxDistance     float64
	weights         scoring.Weights
	resolveTimeout  time.Duration
	matchTimeout    time.Duration
	notifyLimit     int
	notifyThreshold float64
	mapsAPIKey      string
	mapsBaseURL     string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of batch matching workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the batch job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheTTL sets how long cached distances stay fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheCapacity bounds the cache store. Zero means unbounded.
func WithCacheCapacity(capacity uint64) Option {
	return func(s *Service) {
		s.cacheCapacity = capacity
	}
}

// WithMaxDistance sets the default candidate radius in miles.
func WithMaxDistance(miles float64) Option {
	return func(s *Service) {
		if miles > 0 {
			s.maxDistance = miles
		}
	}
}

// WithWeights sets the default match score blend.
func WithWeights(weights scoring.Weights) Option {
	return func(s *Service) {
		s.weights = weights
	}
}

// WithResolveTimeout bounds a single distance provider round trip.
func WithResolveTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.resolveTimeout = timeout
		}
	}
}

// WithMatchTimeout bounds a single matching request.
func WithMatchTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.matchTimeout = timeout
		}
	}
}

// WithNotifyLimit caps how many matches per batch job get notified.
func WithNotifyLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.notifyLimit = limit
		}
	}
}

// WithNotifyThreshold sets the minimum score that triggers a notification.
func WithNotifyThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold >= 0 {
			s.notifyThreshold = threshold
		}
	}
}

// WithMapsAPIKey sets the distance provider credential. An empty key
// keeps the service on deterministic fallback distances.
func WithMapsAPIKey(key string) Option {
	return func(s *Service) {
		s.mapsAPIKey = key
	}
}

// WithMapsBaseURL points the maps client at a different endpoint.
func WithMapsBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.mapsBaseURL = baseURL
		}
	}
}

// WithDirectory sets the volunteer and event directory.
func WithDirectory(d directory.Directory) Option {
	return func(s *Service) {
		if d != nil {
			s.directory = d
		}
	}
}

// WithStore sets the distance cache backend.
func WithStore(store distcache.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithResolver sets the distance resolver, bypassing the key-based
// selection at startup.
func WithResolver(r geo.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:       defaultQueueSize,
		cacheTTL:        distcache.DefaultTTL,
		maxDistance:     scoring.DefaultMaxDistanceMiles,
		weights:         scoring.DefaultWeights(),
		resolveTimeout:  defaultResolveTimeout,
		matchTimeout:    defaultMatchTimeout,
		notifyLimit:     defaultNotifyLimit,
		notifyThreshold: defaultNotifyThreshold,
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matching service...")

	// Initialize components
	if s.directory == nil {
		s.directory = directory.NewSeeded()
	}
	if s.store == nil {
		s.store = repository.NewTTLStore(ctx,
			repository.WithTTL(s.cacheTTL),
			repository.WithCapacity(s.cacheCapacity),
		)
		s.logger.Info(ctx, "using ttl store")
	}
	s.cache = distcache.New(s.store, distcache.WithTTL(s.cacheTTL))

	if s.resolver == nil {
		if s.mapsAPIKey != "" {
			mapsOpts := []geo.MapsOption{geo.WithTimeout(s.resolveTimeout)}
			if s.mapsBaseURL != "" {
				mapsOpts = append(mapsOpts, geo.WithBaseURL(s.mapsBaseURL))
			}
			s.resolver = geo.NewMapsClient(s.mapsAPIKey, mapsOpts...)
		} else {
			s.resolver = geo.NewFallbackResolver()
		}
	}
	s.logger.Info(ctx, "using distance resolver", logger.String("resolver", s.resolver.Name()))

	s.coordinator = matching.New(s.directory, s.directory, s)
	s.notifier = notify.NewInMemory()
	s.jobQueue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))

	// Create and start the worker pool; the service itself is the matcher.
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s, s.notifier,
		workerpool.WithNotifyLimit(s.notifyLimit),
		workerpool.WithNotifyThreshold(s.notifyThreshold),
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("cacheTTL", s.cacheTTL),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	// Shut down the worker pool; this closes the queue and drains it
	if s.workerPool != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		_ = s.workerPool.Shutdown(shutdownCtx)
		cancel()
	}

	// Close the cache store
	if s.store != nil {
		_ = s.store.Close(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// Match runs the matching pipeline for one request. Request fields left
// at their zero value fall back to the configured defaults.
func (s *Service) Match(ctx context.Context, req matching.Request) ([]model.MatchResult, error) {
	if req.MaxDistanceMiles <= 0 {
		req.MaxDistanceMiles = s.maxDistance
	}
	if req.Weights == (scoring.Weights{}) {
		req.Weights = s.weights
	}

	mctx, cancel := context.WithTimeout(ctx, s.matchTimeout)
	defer cancel()

	return s.coordinator.Match(mctx, req)
}

// MatchVolunteer runs matching for one volunteer with the configured
// defaults. This is the entry point batch workers use.
func (s *Service) MatchVolunteer(ctx context.Context, volunteerID string) ([]model.MatchResult, error) {
	return s.Match(ctx, matching.Request{VolunteerID: volunteerID})
}

// MatchAll enqueues a batch matching job for every volunteer in the
// directory and waits for the pool to finish them. Cancelling ctx
// returns the partial summary collected so far.
func (s *Service) MatchAll(ctx context.Context) (model.BatchSummary, error) {
	profiles, err := s.directory.Profiles(ctx)
	if err != nil {
		return model.BatchSummary{}, err
	}

	var summary model.BatchSummary
	done := make(chan jobqueue.Result, len(profiles))

	enqueued := 0
	for _, profile := range profiles {
		job := jobqueue.Job{VolunteerID: profile.ID, EnqueuedAt: time.Now(), Done: done}
		if !s.jobQueue.Enqueue(ctx, job) {
			summary.Errors++
			s.logger.Warn(ctx, "failed to enqueue batch job", logger.String("volunteerID", profile.ID))
			continue
		}
		enqueued++
	}
	summary.Volunteers = enqueued

	for i := 0; i < enqueued; i++ {
		select {
		case res := <-done:
			if res.Err != nil {
				summary.Errors++
				continue
			}
			summary.Matches += res.Matches
			summary.Notifications += res.Notifications
		case <-ctx.Done():
			return summary, ctx.Err()
		}
	}

	s.logger.Info(ctx, "batch matching completed",
		logger.Int("volunteers", summary.Volunteers),
		logger.Int("matches", summary.Matches),
		logger.Int("notifications", summary.Notifications),
		logger.Int("errors", summary.Errors),
	)

	return summary, nil
}

// Distance implements the coordinator's distance provider on top of the
// cache-first resolve path.
func (s *Service) Distance(ctx context.Context, volunteer model.VolunteerProfile, event model.EventRecord) (model.DistanceResult, error) {
	res, _, err := s.distanceFor(ctx, volunteer, event)
	return res, err
}

// DistanceBetween resolves the distance for a volunteer/event pair,
// serving from the cache when a live entry exists. The boolean reports
// a cache hit.
func (s *Service) DistanceBetween(ctx context.Context, volunteerID, eventID string) (model.DistanceResult, bool, error) {
	profile, err := s.directory.Profile(ctx, volunteerID)
	if err != nil {
		return model.DistanceResult{}, false, err
	}
	event, err := s.directory.Event(ctx, eventID)
	if err != nil {
		return model.DistanceResult{}, false, err
	}
	return s.distanceFor(ctx, profile, event)
}

// ResolveDirect resolves a distance between two raw addresses, bypassing
// the cache.
func (s *Service) ResolveDirect(ctx context.Context, origin, destination string) (model.DistanceResult, error) {
	return s.resolve(ctx, origin, destination)
}

// resolve runs one resolver round trip bounded by the configured timeout,
// recording call, error and latency metrics.
func (s *Service) resolve(ctx context.Context, origin, destination string) (model.DistanceResult, error) {
	rctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.resolver.ResolveDistance(rctx, origin, destination)
	metrics.RecordResolverCall(s.resolver.Name())
	metrics.RecordResolverLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordResolverError()
		return model.DistanceResult{}, err
	}
	return res, nil
}

// Fixed address pair for resolver health probes. Any stable pair works;
// the result never enters the cache.
const (
	probeOrigin      = "Houston City Hall, 901 Bagby St, Houston, TX"
	probeDestination = "Hermann Park, Houston, TX"
)

// ProbeResolver runs one live lookup to verify the resolver answers.
func (s *Service) ProbeResolver(ctx context.Context) error {
	if _, err := s.ResolveDirect(ctx, probeOrigin, probeDestination); err != nil {
		return fmt.Errorf("resolver probe: %w", err)
	}
	return nil
}

// distanceFor serves a volunteer/event distance from the cache, falling
// back to one collapsed resolver call per distinct address pair.
func (s *Service) distanceFor(ctx context.Context, profile model.VolunteerProfile, event model.EventRecord) (model.DistanceResult, bool, error) {
	origin, ok := profile.Address.Full()
	if !ok {
		return model.DistanceResult{}, false, fmt.Errorf("%w: volunteer %s", matching.ErrNoAddress, profile.ID)
	}
	destination := event.Location

	if entry, hit := s.cache.Get(ctx, profile.ID, event.ID); hit {
		res := entry.Result
		res.Source = model.SourceCache
		return res, true, nil
	}

	// The flight outlives the caller that starts it so late waiters
	// still get a result.
	fnCtx := context.WithoutCancel(ctx)
	key := distcache.Key(origin, destination)
	ch := s.resolveGroup.DoChan(key, func() (interface{}, error) {
		// A previous flight may have landed while we queued.
		if entry, hit := s.cache.Get(fnCtx, profile.ID, event.ID); hit {
			res := entry.Result
			res.Source = model.SourceCache
			return res, nil
		}

		res, rerr := s.resolve(fnCtx, origin, destination)
		if rerr != nil {
			return model.DistanceResult{}, rerr
		}

		// Cache before the flight tears down so late callers find the row.
		s.cache.Put(fnCtx, profile.ID, event.ID, res)
		return res, nil
	})

	select {
	case flight := <-ch:
		if flight.Err != nil {
			return model.DistanceResult{}, false, flight.Err
		}
		res, _ := flight.Val.(model.DistanceResult)
		if flight.Shared {
			metrics.RecordResolverCollapsed()
			// Shared flights may have run for a different pair with the
			// same addresses; make sure this caller's row exists too.
			if res.Source != model.SourceCache {
				s.cache.Put(ctx, profile.ID, event.ID, res)
			}
		}
		return res, false, nil
	case <-ctx.Done():
		return model.DistanceResult{}, false, fmt.Errorf("%w: %v", geo.ErrUnavailable, ctx.Err())
	}
}

// NearbyEvents lists events within the given radius of a volunteer,
// closest first. Events whose distance cannot be resolved are skipped.
func (s *Service) NearbyEvents(ctx context.Context, volunteerID string, maxDistanceMiles float64) ([]model.NearbyEvent, error) {
	if maxDistanceMiles <= 0 {
		maxDistanceMiles = s.maxDistance
	}

	profile, err := s.directory.Profile(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	if _, ok := profile.Address.Full(); !ok {
		return nil, fmt.Errorf("%w: volunteer %s", matching.ErrNoAddress, volunteerID)
	}

	events, err := s.directory.Events(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		nearby []model.NearbyEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)
	for _, event := range events {
		event := event // per-iteration copy; required while go.mod targets go < 1.22
		g.Go(func() error {
			res, cached, derr := s.distanceFor(gctx, profile, event)
			if derr != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn(gctx, "skipping unresolvable event",
					logger.String("eventID", event.ID),
					logger.Error(derr),
				)
				return nil
			}
			if res.Miles > maxDistanceMiles {
				return nil
			}

			meters := res.Meters
			if meters == 0 {
				meters = res.Miles * model.MetersPerMile
			}

			mu.Lock()
			nearby = append(nearby, model.NearbyEvent{
				EventID:       event.ID,
				EventName:     event.Name,
				Location:      event.Location,
				Urgency:       event.Urgency,
				Date:          event.Date,
				DistanceMiles: res.Miles,
				Meters:        meters,
				Source:        res.Source,
				Cached:        cached,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceMiles != nearby[j].DistanceMiles {
			return nearby[i].DistanceMiles < nearby[j].DistanceMiles
		}
		return nearby[i].EventID < nearby[j].EventID
	})

	return nearby, nil
}

// CleanupCache removes cache rows older than maxAge and reports how many
// were dropped. Zero maxAge means the configured TTL.
func (s *Service) CleanupCache(ctx context.Context, maxAge time.Duration) (int, error) {
	return s.cache.Cleanup(ctx, maxAge)
}

// ListCacheForVolunteer enumerates cached distances for one volunteer.
func (s *Service) ListCacheForVolunteer(ctx context.Context, volunteerID string) ([]distcache.Entry, error) {
	return s.cache.ListForSubject(ctx, volunteerID)
}

// ListCacheForEvent enumerates cached distances for one event.
func (s *Service) ListCacheForEvent(ctx context.Context, eventID string) ([]distcache.Entry, error) {
	return s.cache.ListForTarget(ctx, eventID)
}

// InvalidateCache drops the cached distance for one volunteer/event
// pair, typically after an address change.
func (s *Service) InvalidateCache(ctx context.Context, volunteerID, eventID string) error {
	return s.cache.Delete(ctx, volunteerID, eventID)
}

// Notifications returns the recorded match notifications for a volunteer.
func (s *Service) Notifications(ctx context.Context, volunteerID string) ([]model.Notification, error) {
	return s.notifier.ListForUser(ctx, volunteerID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		cacheSize := s.cache.Size(ctx)

		stats["queueLength"] = queueLen
		stats["cachedDistances"] = cacheSize
		stats["cacheTTLHours"] = s.cacheTTL.Hours()
		stats["notifications"] = s.notifier.Count(ctx)
		stats["resolver"] = s.resolver.Name()
		stats["resolverConfigured"] = s.mapsAPIKey != ""
		if profiles, perr := s.directory.Profiles(ctx); perr == nil {
			stats["volunteers"] = len(profiles)
		}
		if events, eerr := s.directory.Events(ctx); eerr == nil {
			stats["events"] = len(events)
		}

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateCacheSize(cacheSize)
	}

	return stats
}
