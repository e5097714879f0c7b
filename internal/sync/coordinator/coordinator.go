package coordinator

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/stacklok/rust-tracker/internal/logger"
	"github.com/stacklok/rust-tracker/internal/status"
)

// Job is a unit of periodic work
//
//go:generate mockgen -destination=mocks/mock_job.go -package=mocks -source=coordinator.go Job
type Job interface {
	// Name identifies the job in logs and status
	Name() string

	// Run performs one pass. A returned error is logged and recorded; the
	// next tick runs the job again.
	Run(ctx context.Context) error
}

// Coordinator manages the schedule of one background job
type Coordinator interface {
	// Start runs the job immediately and then on every tick.
	// Blocks until the context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the coordinator and waits for the running pass
	Stop() error
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	job      Job
	interval time.Duration
	jitter   time.Duration

	tracker *status.Tracker

	// Lifecycle management
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithJitter applies a random offset in [-jitter, +jitter] to every tick
func WithJitter(jitter time.Duration) Option {
	return func(c *defaultCoordinator) {
		c.jitter = jitter
	}
}

// WithStatusTracker records every run in the given tracker
func WithStatusTracker(tracker *status.Tracker) Option {
	return func(c *defaultCoordinator) {
		c.tracker = tracker
	}
}

// New creates a new coordinator for job
func New(job Job, interval time.Duration, opts ...Option) Coordinator {
	c := &defaultCoordinator{
		job:      job,
		interval: interval,
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.tracker.Register(job.Name())
	return c
}

// nextInterval returns the base interval with a random jitter applied.
// The result is never below half the base interval.
func (c *defaultCoordinator) nextInterval() time.Duration {
	if c.jitter <= 0 {
		return c.interval
	}
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for scheduling jitter
	offset := time.Duration(rand.Int64N(int64(2*c.jitter)+1)) - c.jitter
	next := c.interval + offset
	if floor := c.interval / 2; next < floor {
		return floor
	}
	return next
}

// Start begins the background schedule
func (c *defaultCoordinator) Start(ctx context.Context) error {
	name := c.job.Name()

	coordCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFunc = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		close(c.done)
		logger.Infof("Coordinator '%s' shut down", name)
	}()

	interval := c.nextInterval()
	logger.Infow("Starting coordinator",
		"job", name,
		"base_interval", c.interval,
		"actual_interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial run
	c.runOnce(coordCtx)

	for {
		select {
		case <-ticker.C:
			c.runOnce(coordCtx)

			// New jitter for the next iteration
			ticker.Reset(c.nextInterval())
		case <-coordCtx.Done():
			logger.Infof("Coordinator '%s' stopping", name)
			return nil
		}
	}
}

// Stop gracefully stops the coordinator
func (c *defaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancelFunc
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		// Wait for the loop to finish
		<-c.done
	}
	return nil
}

// runOnce executes one pass of the job and records the outcome
func (c *defaultCoordinator) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	name := c.job.Name()
	c.tracker.Begin(name)
	startTime := time.Now()

	err := c.job.Run(ctx)
	duration := time.Since(startTime)

	c.tracker.Finish(name, err)
	if err != nil {
		logger.Errorw("Job run failed",
			"job", name,
			"duration", duration,
			"error", err)
		return
	}
	logger.Debugw("Job run completed", "job", name, "duration", duration)
}
