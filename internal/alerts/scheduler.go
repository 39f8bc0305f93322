package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Job is one periodic alert job.
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) Result
}

// Scheduler ticks alert jobs on their intervals. A job runs once at Start
// and then every interval; a tick still running when the next is due
// pushes the next one back instead of overlapping it.
type Scheduler struct {
	ctx    context.Context
	cron   gocron.Scheduler
	logger *slog.Logger
	jobs   []string
}

// NewScheduler creates a stopped scheduler. ctx is passed to every tick.
func NewScheduler(ctx context.Context, logger *slog.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{ctx: ctx, cron: cron, logger: logger}, nil
}

// Add registers job.
func (s *Scheduler) Add(job Job) error {
	if job.Interval() <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name())
	}
	_, err := s.cron.NewJob(
		gocron.DurationJob(job.Interval()),
		gocron.NewTask(func() { job.Run(s.ctx) }),
		gocron.WithName(job.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name(), err)
	}
	s.jobs = append(s.jobs, job.Name())
	return nil
}

// Jobs returns the names of registered jobs.
func (s *Scheduler) Jobs() []string {
	return s.jobs
}

// Start begins ticking. It does not block.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Alert scheduler started", "jobs", s.jobs)
}

// Shutdown stops ticking and waits for running ticks to finish.
func (s *Scheduler) Shutdown() error {
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("Alert scheduler stopped")
	return nil
}
