package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is a function run every Interval. Each run gets a context that is
// cancelled when the scheduler stops or after Timeout, whichever is first.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs on their own tickers until Stop.
type Scheduler struct {
	jobs     []Job
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopOnce sync.Once
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers fn. A run may take up to interval before its context is
// cancelled.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Timeout:  interval,
		Fn:       fn,
	})
	slog.Info("Cron: Job registered", "job", name, "interval", interval.String())
}

// Start runs every job once right away, then on its ticker.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(job)
	}
	slog.Info("Cron: Scheduler started", "jobs", len(s.jobs))
}

// Stop cancels running jobs and waits for them. Safe to call twice.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		slog.Info("Cron: Scheduler stopped")
	})
}

func (s *Scheduler) loop(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.run(s.ctx, job)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.run(s.ctx, job)
		}
	}
}

// run executes one pass of job under parent. A panicking job is logged and
// reported as an error so the ticker keeps going.
func (s *Scheduler) run(parent context.Context, job Job) (err error) {
	ctx := parent
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
		if err != nil {
			slog.Error("Cron: Job failed", "job", job.Name, "error", err, "duration", time.Since(start))
			return
		}
		slog.Debug("Cron: Job completed", "job", job.Name, "duration", time.Since(start))
	}()

	return job.Fn(ctx)
}

// RunOnce runs every job a single time under ctx and returns the first error.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	var first error
	for _, job := range jobs {
		if err := s.run(ctx, job); err != nil && first == nil {
			first = err
		}
	}
	return first
}
