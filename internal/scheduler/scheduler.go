// Package scheduler wires up the cron job that fires the daily scrape run
// for all stored job alerts.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/scrape"
)

// AlertSource supplies the read-only alert list at run start.
type AlertSource interface {
	ListAllAlerts(ctx context.Context) ([]db.JobAlert, error)
}

// Scheduler wraps robfig/cron and triggers one scrape run per day at a fixed
// local time. The scrape window is computed from the fire-time's date, so
// missed days are not backfilled.
type Scheduler struct {
	cron   *cron.Cron
	runner *scrape.Runner
	alerts AlertSource
	loc    *time.Location
	spec   string
}

// New creates a Scheduler firing on cronSpec in the named time zone.
func New(runner *scrape.Runner, alerts AlertSource, cronSpec, timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scrape timezone %q: %w", timezone, err)
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		runner: runner,
		alerts: alerts,
		loc:    loc,
		spec:   cronSpec,
	}, nil
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runScrape(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started with spec %s (%s)", s.spec, s.loc)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// runScrape loads all alerts and executes one run against today's window.
func (s *Scheduler) runScrape(ctx context.Context) {
	window := scrape.DailyWindow(time.Now().In(s.loc))

	alerts, err := s.alerts.ListAllAlerts(ctx)
	if err != nil {
		log.Printf("[scheduler] ListAllAlerts error: %v", err)
		return
	}
	if len(alerts) == 0 {
		log.Println("[scheduler] No job alerts: nothing to scrape")
		return
	}

	if _, err := s.runner.RunOnce(ctx, alerts, window); err != nil {
		if errors.Is(err, scrape.ErrRunInProgress) {
			log.Println("[scheduler] Previous run still in flight, skipping this trigger")
			return
		}
		log.Printf("[scheduler] Run error: %v", err)
	}
}
