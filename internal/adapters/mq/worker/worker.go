// Package worker defines worker contracts for asynchronous batch matching.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/volunteerhub/matchd/internal/adapters/mq/queue"
	"github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/pkg/logger"
	"github.com/volunteerhub/matchd/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	defaultNotifyLimit      = 3
	defaultNotifyThreshold  = 50.0
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Matcher runs the full matching pipeline for one volunteer.
type Matcher interface {
	MatchVolunteer(ctx context.Context, volunteerID string) ([]model.MatchResult, error)
}

// Notifier records a notification for a match worth surfacing.
// The boolean reports whether a notification was actually created;
// duplicates return false without an error.
type Notifier interface {
	NotifyMatch(ctx context.Context, match model.MatchResult) (model.Notification, bool, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes batch matching jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining jobs before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing matching jobs.
type InMemoryWorker struct {
	queue    Queue
	matcher  Matcher
	notifier Notifier
	name     string

	// Notification selection
	notifyLimit     int
	notifyThreshold float64

	// Shutdown control
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, matcher Matcher, notifier Notifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:           queue,
		matcher:         matcher,
		notifier:        notifier,
		name:            "worker", // default name
		notifyLimit:     defaultNotifyLimit,
		notifyThreshold: defaultNotifyThreshold,
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
		logger:          logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			res := w.processJob(ctx, job)
			if res.Err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(res.Err))
			}
			if job.Done != nil {
				// Never block on a slow collector.
				select {
				case job.Done <- res:
				default:
				}
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signalStop()

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// signalStop asks the worker loop to exit. Safe to call more than once.
func (w *InMemoryWorker) signalStop() {
	w.stopOnce.Do(func() {
		close(w.shutdown)
	})
}

// processJob runs matching for a single volunteer and records
// notifications for the strongest results.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) queue.Result {
	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerLatency(float64(latency))
	}()

	res := queue.Result{VolunteerID: job.VolunteerID}

	matches, err := w.matcher.MatchVolunteer(ctx, job.VolunteerID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "match_error")
		w.logger.Error(ctx, "matching failed for job",
			logger.String("volunteerID", job.VolunteerID),
			logger.Error(err),
		)
		res.Err = fmt.Errorf("matching failed for %s: %w", job.VolunteerID, err)
		return res
	}
	res.Matches = len(matches)

	for _, match := range w.selectNotifiable(matches) {
		_, created, err := w.notifier.NotifyMatch(ctx, match)
		if err != nil {
			// Notification failures do not fail the job; remaining
			// matches are still delivered.
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "notify_error")
			w.logger.Error(ctx, "notification failed for match",
				logger.String("volunteerID", match.VolunteerID),
				logger.String("eventID", match.EventID),
				logger.Error(err),
			)
			continue
		}
		if created {
			res.Notifications++
		}
	}

	metrics.RecordBatchJobProcessed()
	return res
}

// selectNotifiable keeps the strongest matches that clear the
// notification threshold. Matches arrive sorted by score descending.
func (w *InMemoryWorker) selectNotifiable(matches []model.MatchResult) []model.MatchResult {
	top := matches
	if w.notifyLimit > 0 && len(top) > w.notifyLimit {
		top = top[:w.notifyLimit]
	}

	out := make([]model.MatchResult, 0, len(top))
	for _, match := range top {
		if match.Score > w.notifyThreshold {
			out = append(out, match)
		}
	}
	return out
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. Worker options are applied to
// every worker in the pool.
func NewPool(workerCount int, queue Queue, matcher Matcher, notifier Notifier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := make([]Option, 0, len(opts)+1)
		workerOpts = append(workerOpts, opts...)
		workerOpts = append(workerOpts, WithName("worker-"+strconv.Itoa(i)))
		pool.workers[i] = NewInMemoryWorker(queue, matcher, notifier, workerOpts...)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Size reports the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	// Signal shutdown to all workers
	for _, worker := range p.workers {
		worker.signalStop()
	}

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool. The queue is
// closed first so workers drain any remaining jobs before exiting.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	} else {
		// No way to drain; ask workers to stop directly.
		for _, worker := range p.workers {
			worker.signalStop()
		}
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
