package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-intake/internal/observability"
	"github.com/jonathan/resume-intake/internal/probe"
)

var (
	probeBrowser bool
	probeTimeout time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe URL",
	Short: "Load a served upload page and show its widget",
	Long: `Load a page served by "resume_intake serve" and print what its widget displays.
With --browser the page is rendered in headless Chrome, which also checks that
the page script connects to its event stream.`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().BoolVar(&probeBrowser, "browser", false, "Render the page in headless Chrome")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", probe.DefaultTimeout, "Page load timeout")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		result *probe.Result
		err    error
	)
	if probeBrowser {
		result, err = probe.Render(ctx, args[0], probeTimeout, verbose)
	} else {
		opts := probe.DefaultOptions()
		opts.Timeout = probeTimeout
		result, err = probe.Page(ctx, args[0], opts)
	}
	if err != nil {
		return err
	}

	snapshot, err := probe.Inspect(result.HTML)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSnapshot(result.URL, snapshot)
	return nil
}
