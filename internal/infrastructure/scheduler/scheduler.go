// Package scheduler runs the periodic maintenance jobs: the stale
// contribution sweep, anchoring retries and outbox cleanup.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobFunc is one unit of periodic work.
type JobFunc func(ctx context.Context) error

type job struct {
	name string
	spec string
	run  JobFunc
}

// Scheduler wraps a cron runner. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  zerolog.Logger
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]job
	ctx  context.Context
}

// New creates a scheduler. timeout bounds each run; zero means no bound.
func New(logger zerolog.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DiscardLogger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		logger:  logger.With().Str("component", "scheduler").Logger(),
		timeout: timeout,
		jobs:    make(map[string]job),
		ctx:     context.Background(),
	}
}

// Add registers fn under name using a standard cron spec or a descriptor
// such as "@every 5m".
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	j := job{name: name, spec: spec, run: fn}
	if _, err := s.cron.AddFunc(spec, func() { s.execute(s.runContext(), j) }); err != nil {
		return fmt.Errorf("schedule %q: %w", name, err)
	}
	s.jobs[name] = j
	return nil
}

// Start runs the registered jobs until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")

	go func() {
		<-ctx.Done()
		<-s.Stop().Done()
	}()
}

// Stop halts scheduling. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunNow executes the named job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.execute(ctx, j)
}

// Jobs returns the registered job names with their schedules.
func (s *Scheduler) Jobs() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.jobs))
	for name, j := range s.jobs {
		out[name] = j.spec
	}
	return out
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scheduler) execute(ctx context.Context, j job) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := j.run(ctx)
	evt := s.logger.Debug()
	if err != nil {
		evt = s.logger.Error().Err(err)
	}
	evt.Str("job", j.name).Dur("duration", time.Since(start)).Msg("job finished")
	return err
}
