package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/scrape"
)

type staticAlerts struct {
	alerts []db.JobAlert
}

func (s *staticAlerts) ListAllAlerts(context.Context) ([]db.JobAlert, error) {
	return s.alerts, nil
}

func testRunner() *scrape.Runner {
	return scrape.NewRunner(nil, nil)
}

func TestNew_InvalidTimezone(t *testing.T) {
	_, err := New(testRunner(), &staticAlerts{}, "0 2 * * *", "Mars/Olympus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scrape timezone")
}

func TestNew_ValidTimezone(t *testing.T) {
	s, err := New(testRunner(), &staticAlerts{}, "0 2 * * *", "Africa/Lagos")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestStart_InvalidCronSpec(t *testing.T) {
	s, err := New(testRunner(), &staticAlerts{}, "not a cron spec", "Africa/Lagos")
	require.NoError(t, err)

	err = s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron.AddFunc")
}

func TestStartStop(t *testing.T) {
	s, err := New(testRunner(), &staticAlerts{}, "0 2 * * *", "Africa/Lagos")
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
