// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-intake/internal/probe"
	"github.com/jonathan/resume-intake/internal/widget"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the terminal front end.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// PrintProfile outputs the extracted profile lines.
func (p *Printer) PrintProfile(lines []widget.ProfileLine) {
	if len(lines) == 0 {
		return
	}

	labelWidth := 0
	for _, line := range lines {
		labelWidth = max(labelWidth, utf8.RuneCountInString(line.Label)+1)
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("%-*s %s\n", labelWidth, line.Label+":", line.Value))
	}

	p.printBox("EXTRACTED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIgnored lists files that were passed but not used.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintIgnored(names []string) {
	if len(names) == 0 {
		return
	}

	count := min(len(names), maxItemsToShow)
	fmt.Fprintf(p.out, "Only the first file is submitted; ignoring %d:\n", len(names))
	for _, name := range names[:count] {
		fmt.Fprintf(p.out, "  • %s\n", name)
	}
	if len(names) > maxItemsToShow {
		fmt.Fprintf(p.out, "  ... and %d more\n", len(names)-maxItemsToShow)
	}
}

// PrintHealth outputs the API health check result.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintHealth(apiURL, status string, healthy bool) {
	mark := "✅"
	if !healthy {
		mark = "❌"
	}
	if status == "" {
		status = "unreachable"
	}
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(fmt.Sprintf("%s %s: %s", mark, apiURL, status), boxWidth-4))
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

// PrintSnapshot outputs what a probed widget page displays.
func (p *Printer) PrintSnapshot(pageURL string, s *probe.Snapshot) {
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Page:      %s\n", pageURL))
	sb.WriteString(fmt.Sprintf("Connected: %s\n", yesNo(s.Connected)))
	sb.WriteString(fmt.Sprintf("Drop zone: %s %s\n", s.DropZone.Icon, s.DropZone.Text))
	sb.WriteString(fmt.Sprintf("Hint:      %s\n", s.DropZone.Hint))
	if s.FileInfo != "" {
		sb.WriteString(fmt.Sprintf("File:      %s\n", s.FileInfo))
	}
	sb.WriteString(fmt.Sprintf("Form:      %s\n", yesNo(s.FormVisible)))
	sb.WriteString(fmt.Sprintf("Submit:    %s (enabled: %s)", s.SubmitLabel, yesNo(s.SubmitEnabled)))
	if s.BannerVisible {
		sb.WriteString(fmt.Sprintf("\nBanner:    %s", s.Banner))
	}

	p.printBox("UPLOAD WIDGET", sb.String())
	p.PrintProfile(s.Results)
}
