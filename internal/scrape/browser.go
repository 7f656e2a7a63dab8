package scrape

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultNavTimeout bounds a single page navigation so one unresponsive page
// cannot stall the rest of the run.
const DefaultNavTimeout = 30 * time.Second

// Renderer navigates to a URL in a headless browser and returns the rendered
// HTML. Implementations own a browser process; Close must be called on every
// exit path of a run.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
	Close()
}

// RendererFactory launches a Renderer for the duration of one run.
type RendererFactory func(ctx context.Context) (Renderer, error)

// Browser is a chromedp-backed Renderer. One browser process is launched per
// run; each Render opens its own tab inside that process, which amortizes
// process startup across all alerts.
type Browser struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	navTimeout time.Duration
}

// LaunchBrowser starts a headless browser process and verifies it is up.
// Requires Chrome/Chromium to be installed on the system.
func LaunchBrowser(ctx context.Context, navTimeout time.Duration) (Renderer, error) {
	if navTimeout <= 0 {
		navTimeout = DefaultNavTimeout
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the process to start now, so a broken
	// Chrome install fails the run before any alert is attempted.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, &LaunchError{Cause: err}
	}

	return &Browser{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{browserCancel, allocCancel},
		navTimeout: navTimeout,
	}, nil
}

// Render opens a new tab, navigates to the URL, waits for the page's load
// event plus body readiness, and returns the rendered HTML. The tab is closed
// before returning.
func (b *Browser) Render(ctx context.Context, url string) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	defer tabCancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, b.navTimeout)
	defer timeoutCancel()

	// Propagate caller cancellation without rebinding the chromedp context
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			tabCancel()
		case <-done:
		}
	}()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &RenderError{URL: url, Cause: err}
	}

	return html, nil
}

// Close shuts down the browser process.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}
