package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

// Scheduler periodically runs a full ingestion cycle.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service *weather.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running ingestion cycle")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := s.service.RunCycle(ctx)
		if err != nil {
			log.Printf("scheduler: cycle finished with failures: %v", err)
		}
		log.Printf("scheduler: cycle done (forecast=%d observation=%d purged=%d/%d)",
			result.Forecast.Upserted, result.Observation.Upserted,
			result.Purge.ForecastRemoved, result.Purge.ObservationRemoved)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
