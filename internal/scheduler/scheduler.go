package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ricemill/backend/internal/usecase"
)

// refreshTimeout bounds a single scheduled forecast run.
const refreshTimeout = 30 * time.Second

// Scheduler refreshes the demand forecast on a cron schedule so
// dashboards read a warm result instead of recomputing on page load.
type Scheduler struct {
	cron      *cron.Cron
	forecast  *usecase.ForecastService
	timeframe string
}

// New creates a scheduler for the given forecast timeframe.
func New(forecast *usecase.ForecastService, timeframe string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		forecast:  forecast,
		timeframe: timeframe,
	}
}

// Register adds the refresh task under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	_, err := s.cron.AddFunc(spec, s.refresh)
	return err
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[SCHED] forecast scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[SCHED] forecast scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger / warm start).
func (s *Scheduler) RunNow() {
	s.refresh()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result, err := s.forecast.Refresh(ctx, s.timeframe)
	if err != nil {
		log.Printf("[ERROR] scheduled forecast refresh: %v", err)
		return
	}

	log.Printf("[SCHED] forecast refreshed: timeframe=%s points=%d tier=%s daily=%.1f",
		result.Timeframe, result.DataPointsUsed, result.ConfidenceTier, result.OverallDaily)
}
