package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrapperhq/scrapper/internal/config"
	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/mail"
	"github.com/scrapperhq/scrapper/internal/scheduler"
	"github.com/scrapperhq/scrapper/internal/scrape"
	"github.com/scrapperhq/scrapper/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server and the daily scrape scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	scrapeCfg, err := config.NewScrapeConfig()
	if err != nil {
		return err
	}

	// Mail is optional: without SMTP settings the API still works, account
	// email is just not sent.
	var mailer server.MailSender
	if mailCfg, err := config.NewMailConfig(); err != nil {
		log.Printf("[mail] Outbound mail disabled: %v", err)
	} else {
		m, err := mail.New(mailCfg)
		if err != nil {
			return err
		}
		mailer = m
	}

	runner := scrape.NewRunner(database, func(ctx context.Context) (scrape.Renderer, error) {
		return scrape.LaunchBrowser(ctx, scrapeCfg.NavTimeout)
	})

	sched, err := scheduler.New(runner, database, scrapeCfg.CronSpec, scrapeCfg.Timezone)
	if err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	srv, err := server.New(server.Config{
		Port:       servePort,
		NavTimeout: scrapeCfg.NavTimeout,
	}, database, mailer)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
