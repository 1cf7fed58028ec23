package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-intake/internal/metrics"
	"github.com/jonathan/resume-intake/internal/server"
	"github.com/jonathan/resume-intake/internal/upload"
	"github.com/jonathan/resume-intake/internal/widget"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload widget",
	Long:  `Start an HTTP server that gives each visitor an upload widget session and submits their resume to the intake API.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	client, err := upload.New(cfg.APIURL, nil)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port: cfg.Port,
		Widget: widget.Config{
			MaxFileSize: cfg.MaxFileSize,
			ResetDelay:  cfg.ResetDelay(),
			Details:     cfg.Verbose,
		},
		MaxRequestBytes: cfg.MaxRequestBytes,
		SessionTTL:      cfg.SessionTTL(),
	}, client, server.WithMetrics(metrics.New()))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Printf("[serve] widget on %s, submitting to %s", cfg.Addr(), client.BaseURL())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		checkAPI(gctx, client)
		return nil
	})
	return g.Wait()
}

// checkAPI logs whether the intake API answers. The server starts either way.
func checkAPI(ctx context.Context, client *upload.Client) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status, err := client.Health(ctx)
	if err != nil {
		log.Printf("[serve] intake API %s not healthy: %v", client.BaseURL(), err)
		return
	}
	log.Printf("[serve] intake API %s: %s", client.BaseURL(), status)
}
