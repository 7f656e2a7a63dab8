// Package main provides the entry point for the Scrapper backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scrapper",
	Short: "Scrapper job-alert backend",
	Long:  "Scrapper stores job-search alerts and scrapes matching postings from applicant-tracking-system sites once a day, serving them over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
