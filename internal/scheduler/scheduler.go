package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"weather-monitor/internal/weather"
)

// Scheduler drives the two periodic cycles: the short-interval fetch (with an
// immediate run at startup) and the daily aggregation.
type Scheduler struct {
	scheduler      *gocron.Scheduler
	service        *weather.Service
	fetchEvery     time.Duration
	aggregateEvery time.Duration
	log            *slog.Logger
}

// New creates a Scheduler around the given service. Both intervals must be
// positive.
func New(service *weather.Service, fetchEvery, aggregateEvery time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler:      gocron.NewScheduler(time.UTC),
		service:        service,
		fetchEvery:     fetchEvery,
		aggregateEvery: aggregateEvery,
		log:            log,
	}
}

// Start registers both jobs and starts the scheduler asynchronously. The
// fetch job fires once immediately, covering the startup fetch, then on its
// interval. The two jobs are independent and share no state beyond the store.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.fetchEvery).StartImmediately().Do(func() {
		s.service.FetchCycle(context.Background())
	})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Every(s.aggregateEvery).Do(func() {
		s.service.AggregateCycle(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started",
		"fetchEvery", s.fetchEvery.String(),
		"aggregateEvery", s.aggregateEvery.String())
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
