package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-intake/internal/observability"
	"github.com/jonathan/resume-intake/internal/upload"
)

var healthTimeout time.Duration

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the intake API is up",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 5*time.Second, "Request timeout")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := upload.New(cfg.APIURL, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
	defer cancel()

	status, err := client.Health(ctx)
	observability.NewPrinter(cmd.OutOrStdout()).PrintHealth(client.BaseURL(), status, err == nil)
	return err
}
