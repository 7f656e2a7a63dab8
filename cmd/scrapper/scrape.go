package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrapperhq/scrapper/internal/config"
	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/scrape"
)

var scrapeAfter string

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one scrape pass over all stored alerts now",
	Long: `Run the scrape pipeline once, outside the daily schedule. By default the
window covers yesterday through today; --after scrapes a single past day.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeAfter, "after", "", "Window start date (YYYY-MM-DD); window ends one day later")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	scrapeCfg, err := config.NewScrapeConfig()
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(scrapeCfg.Timezone)
	if err != nil {
		return err
	}

	window := scrape.DailyWindow(time.Now().In(loc))
	if scrapeAfter != "" {
		after, err := time.ParseInLocation("2006-01-02", scrapeAfter, loc)
		if err != nil {
			return fmt.Errorf("invalid --after date: %w", err)
		}
		window = scrape.Window{After: after, Before: after.AddDate(0, 0, 1)}
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	alerts, err := database.ListAllAlerts(ctx)
	if err != nil {
		return err
	}

	runner := scrape.NewRunner(database, func(ctx context.Context) (scrape.Renderer, error) {
		return scrape.LaunchBrowser(ctx, scrapeCfg.NavTimeout)
	})

	summary, err := runner.RunOnce(ctx, alerts, window)
	if err != nil {
		return err
	}

	fmt.Printf("Scraped %d alert(s) over %s: %d posting(s) added, %d failed, took %s\n",
		summary.AlertsTotal, summary.Window, summary.JobsAdded, summary.AlertsFailed,
		summary.Elapsed.Round(time.Millisecond))
	return nil
}
