package scrape

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/scrapperhq/scrapper/internal/db"
)

// ErrRunInProgress is returned when a run is triggered while another is
// still executing. The trigger is skipped, not queued: a queued run would
// re-scrape the same window anyway since windows derive from the fire date.
var ErrRunInProgress = errors.New("scrape run already in progress")

// JobStore persists one alert's extracted postings atomically.
type JobStore interface {
	InsertJobs(ctx context.Context, alertID uuid.UUID, jobs []db.JobInput) error
}

// Summary reports run-level metrics for operational visibility.
type Summary struct {
	Window       Window
	AlertsTotal  int
	AlertsFailed int
	JobsAdded    int
	Elapsed      time.Duration
}

// Runner iterates all alerts sequentially, driving the full compile,
// render, extract, persist pipeline for each. The browser process is
// launched at the start of a run and released on every exit path.
type Runner struct {
	store       JobStore
	newRenderer RendererFactory
	running     atomic.Bool
}

// NewRunner constructs a Runner. The factory is invoked once per run.
func NewRunner(store JobStore, factory RendererFactory) *Runner {
	return &Runner{store: store, newRenderer: factory}
}

// RunOnce processes every alert against the given window. A failure scoped
// to one alert (render, extract or persist) is logged and skipped; only a
// browser launch failure aborts the run. At most one run executes at a time.
func (r *Runner) RunOnce(ctx context.Context, alerts []db.JobAlert, window Window) (*Summary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.running.Store(false)

	start := time.Now()
	log.Printf("[scrape] Run started: window %s, %d alert(s)", window, len(alerts))

	renderer, err := r.newRenderer(ctx)
	if err != nil {
		log.Printf("[scrape] Run aborted: %v", err)
		return nil, err
	}
	defer renderer.Close()

	summary := &Summary{Window: window, AlertsTotal: len(alerts)}

	for _, alert := range alerts {
		added, err := r.scrapeAlert(ctx, renderer, alert, window)
		if err != nil {
			log.Printf("[scrape] Alert %s failed, continuing: %v", alert.ID, err)
			summary.AlertsFailed++
			continue
		}
		summary.JobsAdded += added
	}

	summary.Elapsed = time.Since(start)
	log.Printf("[scrape] Run complete: window %s, added=%d failed=%d elapsed=%s",
		window, summary.JobsAdded, summary.AlertsFailed, summary.Elapsed.Round(time.Millisecond))

	return summary, nil
}

// scrapeAlert runs the pipeline for a single alert. Zero extracted postings
// is a valid outcome, not an error.
func (r *Runner) scrapeAlert(ctx context.Context, renderer Renderer, alert db.JobAlert, window Window) (int, error) {
	_, requestURL := Compile(alert, window)

	html, err := renderer.Render(ctx, requestURL)
	if err != nil {
		return 0, err
	}

	records, err := Extract(html)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		log.Printf("[scrape] Alert %s: 0 postings added", alert.ID)
		return 0, nil
	}

	jobs := make([]db.JobInput, len(records))
	for i, rec := range records {
		jobs[i] = db.JobInput{Title: rec.Title, URL: rec.URL, Site: rec.Site}
	}

	if err := r.store.InsertJobs(ctx, alert.ID, jobs); err != nil {
		return 0, err
	}

	log.Printf("[scrape] Alert %s: %d posting(s) added", alert.ID, len(jobs))
	return len(jobs), nil
}
