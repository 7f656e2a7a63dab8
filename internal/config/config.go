// Package config provides environment-driven configuration for the server,
// the scrape scheduler and outbound mail.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ScrapeConfig holds the schedule and rendering limits for the daily scrape.
type ScrapeConfig struct {
	// CronSpec is when the daily run fires, evaluated in Timezone.
	CronSpec string
	// Timezone names the fixed zone the schedule is anchored to.
	Timezone string
	// NavTimeout bounds a single page navigation.
	NavTimeout time.Duration
}

// NewScrapeConfig creates scrape configuration from environment variables.
// It reads SCRAPE_CRON_SPEC (default: "0 2 * * *"), SCRAPE_TIMEZONE
// (default: "Africa/Lagos") and SCRAPE_NAV_TIMEOUT_SECONDS (default: 30).
func NewScrapeConfig() (*ScrapeConfig, error) {
	spec := os.Getenv("SCRAPE_CRON_SPEC")
	if spec == "" {
		spec = "0 2 * * *"
	}

	tz := os.Getenv("SCRAPE_TIMEZONE")
	if tz == "" {
		tz = "Africa/Lagos"
	}

	timeoutStr := os.Getenv("SCRAPE_NAV_TIMEOUT_SECONDS")
	if timeoutStr == "" {
		timeoutStr = "30"
	}
	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SCRAPE_NAV_TIMEOUT_SECONDS: %v", err)
	}

	config := &ScrapeConfig{
		CronSpec:   spec,
		Timezone:   tz,
		NavTimeout: time.Duration(timeoutSecs) * time.Second,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ScrapeConfig) normalize() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid SCRAPE_TIMEZONE %q: %v", c.Timezone, err)
	}
	if c.NavTimeout < time.Second {
		return fmt.Errorf("SCRAPE_NAV_TIMEOUT_SECONDS must be at least 1, got: %s", c.NavTimeout)
	}
	return nil
}

// MailConfig holds SMTP settings for transactional mail.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// NewMailConfig creates mail configuration from environment variables.
// It reads SMTP_HOST (required), SMTP_PORT (default: 587), SMTP_USERNAME,
// SMTP_PASSWORD, MAIL_FROM (required) and FRONTEND_URL (required).
func NewMailConfig() (*MailConfig, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST is required but not set")
	}

	portStr := os.Getenv("SMTP_PORT")
	if portStr == "" {
		portStr = "587"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %v", err)
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		return nil, fmt.Errorf("MAIL_FROM is required but not set")
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		return nil, fmt.Errorf("FRONTEND_URL is required but not set")
	}

	return &MailConfig{
		Host:        host,
		Port:        port,
		Username:    os.Getenv("SMTP_USERNAME"),
		Password:    os.Getenv("SMTP_PASSWORD"),
		From:        from,
		FrontendURL: frontendURL,
	}, nil
}
