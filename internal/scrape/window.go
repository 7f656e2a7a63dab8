// Package scrape implements the job-alert scraping pipeline: query
// compilation, headless page rendering, result extraction and persistence.
package scrape

import (
	"fmt"
	"time"
)

// dateLayout is the format used in date-bound query clauses.
const dateLayout = "2006-01-02"

// Window is the [After, Before) date range applied to a single run's
// queries. Every alert in a run shares the same window.
type Window struct {
	After  time.Time
	Before time.Time
}

// DailyWindow returns the window for a run fired at now: yesterday's date
// through today's, in now's location.
func DailyWindow(now time.Time) Window {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Window{
		After:  today.AddDate(0, 0, -1),
		Before: today,
	}
}

// AfterDate returns the inclusive lower bound formatted YYYY-MM-DD.
func (w Window) AfterDate() string {
	return w.After.Format(dateLayout)
}

// BeforeDate returns the exclusive upper bound formatted YYYY-MM-DD.
func (w Window) BeforeDate() string {
	return w.Before.Format(dateLayout)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.AfterDate(), w.BeforeDate())
}
