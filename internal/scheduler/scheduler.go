package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Purger drops expired entries and reports how many were removed.
type Purger interface {
	Purge() int
}

// Scheduler periodically purges expired session revocations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	purger    Purger
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a new Scheduler.
func New(purger Purger, interval time.Duration, log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		purger:    purger,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the purge job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.purger == nil {
		s.log.Info("scheduler: nothing to purge; not scheduling")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	if n := s.purger.Purge(); n > 0 {
		s.log.Infow("scheduler: purged expired revocations", "count", n)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
