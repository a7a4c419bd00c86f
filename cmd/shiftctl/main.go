// Package main provides shiftctl, a command line tool for running the shift
// extraction and scoring steps against local files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"shiftsense/api-gateway/config"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "shiftctl",
	Short: "Inspect shift extraction and scoring locally",
	Long:  "shiftctl reads rota screenshots with the vision model and scores shifts without touching the database.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		config.InitLogger(logLevel)
		config.Log.SetOutput(os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
