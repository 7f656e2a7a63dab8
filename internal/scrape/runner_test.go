package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapperhq/scrapper/internal/db"
)

// fakeRenderer serves canned HTML, or an error, per rendered URL.
type fakeRenderer struct {
	render func(url string) (string, error)
	closed bool
}

func (f *fakeRenderer) Render(_ context.Context, url string) (string, error) {
	return f.render(url)
}

func (f *fakeRenderer) Close() { f.closed = true }

func fakeFactory(r *fakeRenderer) RendererFactory {
	return func(context.Context) (Renderer, error) { return r, nil }
}

// fakeStore records inserts and can fail for chosen alerts.
type fakeStore struct {
	mu       sync.Mutex
	inserted map[uuid.UUID][]db.JobInput
	failFor  map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		inserted: make(map[uuid.UUID][]db.JobInput),
		failFor:  make(map[uuid.UUID]bool),
	}
}

func (f *fakeStore) InsertJobs(_ context.Context, alertID uuid.UUID, jobs []db.JobInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[alertID] {
		return errors.New("insert failed")
	}
	f.inserted[alertID] = jobs
	return nil
}

func testAlert(search string) db.JobAlert {
	return db.JobAlert{ID: uuid.New(), UserID: uuid.New(), Name: search, Search: search}
}

func pageWithResults(n int) string {
	var titles, links, sites []string
	for i := 0; i < n; i++ {
		titles = append(titles, fmt.Sprintf("Job %d", i))
		links = append(links, fmt.Sprintf("https://jobs.lever.co/%d", i))
		sites = append(sites, "Lever")
	}
	return resultHTML(titles, links, sites)
}

func TestRunOnce_PersistsExtractedJobs(t *testing.T) {
	alert := testAlert("backend engineer")
	renderer := &fakeRenderer{render: func(string) (string, error) {
		return pageWithResults(3), nil
	}}
	store := newFakeStore()
	runner := NewRunner(store, fakeFactory(renderer))

	summary, err := runner.RunOnce(context.Background(), []db.JobAlert{alert}, DailyWindow(time.Now()))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.JobsAdded)
	assert.Equal(t, 0, summary.AlertsFailed)
	require.Len(t, store.inserted[alert.ID], 3)
	assert.Equal(t, "Job 0", store.inserted[alert.ID][0].Title)
	assert.True(t, renderer.closed, "browser must be released after the run")
}

func TestRunOnce_FailedAlertDoesNotAbortRun(t *testing.T) {
	alertA := testAlert("fails to render")
	alertB := testAlert("renders fine")

	renderer := &fakeRenderer{render: func(url string) (string, error) {
		if urlMentions(url, "fails") {
			return "", &RenderError{URL: url, Cause: errors.New("navigation timeout")}
		}
		return pageWithResults(2), nil
	}}
	store := newFakeStore()
	runner := NewRunner(store, fakeFactory(renderer))

	summary, err := runner.RunOnce(context.Background(), []db.JobAlert{alertA, alertB}, DailyWindow(time.Now()))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.AlertsFailed)
	assert.Equal(t, 2, summary.JobsAdded)
	assert.NotContains(t, store.inserted, alertA.ID)
	assert.Len(t, store.inserted[alertB.ID], 2)
	assert.True(t, renderer.closed)
}

func TestRunOnce_PersistFailureContained(t *testing.T) {
	alertA := testAlert("store fails")
	alertB := testAlert("store works")

	renderer := &fakeRenderer{render: func(string) (string, error) {
		return pageWithResults(1), nil
	}}
	store := newFakeStore()
	store.failFor[alertA.ID] = true
	runner := NewRunner(store, fakeFactory(renderer))

	summary, err := runner.RunOnce(context.Background(), []db.JobAlert{alertA, alertB}, DailyWindow(time.Now()))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.AlertsFailed)
	assert.Equal(t, 1, summary.JobsAdded)
	assert.Len(t, store.inserted[alertB.ID], 1)
}

func TestRunOnce_EmptyPageAddsZero(t *testing.T) {
	alert := testAlert("no matches")
	renderer := &fakeRenderer{render: func(string) (string, error) {
		return "<html><body></body></html>", nil
	}}
	store := newFakeStore()
	runner := NewRunner(store, fakeFactory(renderer))

	summary, err := runner.RunOnce(context.Background(), []db.JobAlert{alert}, DailyWindow(time.Now()))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.JobsAdded)
	assert.Equal(t, 0, summary.AlertsFailed)
	assert.NotContains(t, store.inserted, alert.ID)
}

func TestRunOnce_LaunchFailureAbortsRun(t *testing.T) {
	launchErr := &LaunchError{Cause: errors.New("chrome not found")}
	factory := func(context.Context) (Renderer, error) { return nil, launchErr }
	store := newFakeStore()
	runner := NewRunner(store, factory)

	summary, err := runner.RunOnce(context.Background(), []db.JobAlert{testAlert("any")}, DailyWindow(time.Now()))
	require.Error(t, err)

	var le *LaunchError
	assert.ErrorAs(t, err, &le)
	assert.Nil(t, summary)
	assert.Empty(t, store.inserted)
}

func TestRunOnce_SecondConcurrentRunSkipped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	renderer := &fakeRenderer{render: func(string) (string, error) {
		close(started)
		<-release
		return pageWithResults(1), nil
	}}
	store := newFakeStore()
	runner := NewRunner(store, fakeFactory(renderer))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := runner.RunOnce(context.Background(), []db.JobAlert{testAlert("slow")}, DailyWindow(time.Now()))
		assert.NoError(t, err)
	}()

	<-started
	_, err := runner.RunOnce(context.Background(), []db.JobAlert{testAlert("overlap")}, DailyWindow(time.Now()))
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(release)
	wg.Wait()

	// The guard is released once the first run finishes.
	renderer.render = func(string) (string, error) { return pageWithResults(1), nil }
	_, err = runner.RunOnce(context.Background(), []db.JobAlert{testAlert("after")}, DailyWindow(time.Now()))
	assert.NoError(t, err)
}

// urlMentions reports whether the compiled request URL carries the phrase.
// The phrase arrives percent-encoded inside the q parameter, spaces as '+'.
func urlMentions(rawURL, phrase string) bool {
	return strings.Contains(rawURL, url.QueryEscape(phrase))
}
