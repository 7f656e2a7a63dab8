package scrape

import "fmt"

// LaunchError represents a failure to start the browser process. It aborts
// the whole run since no alert can be rendered without a browser.
type LaunchError struct {
	Cause error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("browser launch failed: %v", e.Cause)
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// RenderError represents a navigation or rendering failure for one page.
// Recoverable at the alert level: the run logs it and moves on.
type RenderError struct {
	URL   string
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for %s: %v", e.URL, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
