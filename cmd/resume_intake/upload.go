package main

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-intake/internal/observability"
	"github.com/jonathan/resume-intake/internal/upload"
	"github.com/jonathan/resume-intake/internal/widget"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE [FILE...]",
	Short: "Submit a resume from the terminal",
	Long: `Submit a resume to the intake API and print the extracted profile.
Only the first file is submitted, as with a drop of several files on the widget.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := upload.New(cfg.APIURL, nil)
	if err != nil {
		return err
	}

	file, err := widget.OpenDiskFile(args[0])
	if err != nil {
		return err
	}

	term := observability.NewTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ignored := make([]string, 0, len(args)-1)
	for _, path := range args[1:] {
		ignored = append(ignored, filepath.Base(path))
	}
	term.Printer().PrintIgnored(ignored)

	logOut := io.Discard
	if cfg.Verbose {
		logOut = cmd.ErrOrStderr()
	}

	w, err := widget.New(widget.Config{
		MaxFileSize: cfg.MaxFileSize,
		ResetDelay:  cfg.ResetDelay(),
		Details:     cfg.Verbose,
	}, term.Surfaces(), client, widget.WithLogger(log.New(logOut, "", log.LstdFlags)))
	if err != nil {
		return err
	}
	defer w.Close()

	w.Drop([]widget.File{file})
	if err := w.Submit(cmd.Context()); err != nil {
		return fmt.Errorf("%s not submitted: %s", file.Info().Name, widget.KindOf(err))
	}
	return nil
}
