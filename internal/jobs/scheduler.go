package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Scheduler runs periodic background tasks. Tasks receive a context that
// is cancelled on Shutdown.
type Scheduler struct {
	sched  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger
}

// NewScheduler creates a stopped scheduler
func NewScheduler(logger zerolog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		sched:  sched,
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}, nil
}

// Every registers task to run once immediately and then on each interval.
// Overlapping runs of the same task are skipped.
func (s *Scheduler) Every(name string, interval time.Duration, task func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			task(s.ctx)
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	s.logger.Info().Str("job", name).Dur("interval", interval).Msg("Job scheduled")
	return nil
}

// Start begins running registered jobs
func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown cancels running tasks and waits for them to return
func (s *Scheduler) Shutdown() error {
	s.cancel()
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}
	return nil
}
