// Package scheduler runs a fetch job on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work
type Job func(ctx context.Context) error

// Scheduler triggers a Job on a standard five-field cron expression,
// evaluated in UTC. A tick is skipped while the previous run is still busy.
type Scheduler struct {
	spec       string
	schedule   cron.Schedule
	runOnStart bool
	logger     *slog.Logger
}

// Option customizes a Scheduler
type Option func(*Scheduler)

// WithRunOnStart runs the job once immediately when Run starts
func WithRunOnStart() Option {
	return func(s *Scheduler) { s.runOnStart = true }
}

func New(spec string, logger *slog.Logger, opts ...Option) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s := &Scheduler{spec: spec, schedule: schedule, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Next returns the first activation strictly after t
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.UTC())
}

// Run blocks until ctx is done, then waits for a running job to return
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	var wg sync.WaitGroup
	cl := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	wrapped := cron.FuncJob(func() { s.runJob(ctx, job) })
	id := c.Schedule(s.schedule, wrapped)

	s.logger.Info("scheduler started", "cron", s.spec, "next", s.Next(time.Now()))
	c.Start()

	if s.runOnStart {
		// goes through the chain so a cron tick cannot overlap it
		first := c.Entry(id).WrappedJob
		wg.Add(1)
		go func() {
			defer wg.Done()
			first.Run()
		}()
	}

	<-ctx.Done()
	s.logger.Info("scheduler stopping, waiting for running job")
	<-c.Stop().Done()
	wg.Wait()
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("scheduled job failed", "error", err, "elapsed", time.Since(start))
		return
	}
	s.logger.Info("scheduled job finished", "elapsed", time.Since(start), "next", s.Next(time.Now()))
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
