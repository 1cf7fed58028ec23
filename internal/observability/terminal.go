package observability

import (
	"fmt"
	"io"

	"github.com/jonathan/resume-intake/internal/widget"
)

// SuccessBanner is printed when a submission is accepted.
const SuccessBanner = "✅ " + widget.SuccessMessage

// Terminal renders widget surfaces as terminal output. Progress and
// results go to out, alerts to errOut. It has no picker.
type Terminal struct {
	out     io.Writer
	errOut  io.Writer
	printer *Printer
	alerts  []string
}

// NewTerminal creates terminal surfaces writing to out and errOut.
func NewTerminal(out, errOut io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		errOut:  errOut,
		printer: NewPrinter(out),
	}
}

// Surfaces returns the widget surfaces backed by t.
func (t *Terminal) Surfaces() widget.Surfaces {
	return widget.Surfaces{
		DropZone:      terminalDropZone{t},
		FileInfo:      terminalFileInfo{t},
		Form:          quietForm{},
		SuccessBanner: terminalBanner{t},
		Submit:        terminalSubmit{t},
		Results:       terminalResults{t},
		Alerts:        t,
	}
}

// Printer returns the box printer writing to out.
func (t *Terminal) Printer() *Printer {
	return t.printer
}

// Alert implements widget.Alerter.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (t *Terminal) Alert(message string) {
	t.alerts = append(t.alerts, message)
	fmt.Fprintf(t.errOut, "⚠ %s\n", message)
}

// Alerts returns the messages alerted so far.
func (t *Terminal) Alerts() []string {
	return append([]string(nil), t.alerts...)
}

type terminalDropZone struct{ t *Terminal }

func (terminalDropZone) SetDragOver(bool) {}

// SetContent prints the confirmation once a file is selected. The empty
// call to action has no terminal equivalent.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (d terminalDropZone) SetContent(c widget.DropZoneContent) {
	if c.Uploaded {
		fmt.Fprintf(d.t.out, "%s %s\n", c.Icon, c.Text)
	}
}

type terminalFileInfo struct{ t *Terminal }

//nolint:errcheck // writing to stdout; errors are not recoverable
func (f terminalFileInfo) Show(text string) { fmt.Fprintln(f.t.out, text) }
func (terminalFileInfo) Hide()              {}

type quietForm struct{}

func (quietForm) Show()  {}
func (quietForm) Hide()  {}
func (quietForm) Reset() {}

type terminalBanner struct{ t *Terminal }

//nolint:errcheck // writing to stdout; errors are not recoverable
func (b terminalBanner) Show() { fmt.Fprintln(b.t.out, SuccessBanner) }
func (terminalBanner) Hide()   {}

type terminalSubmit struct{ t *Terminal }

func (terminalSubmit) SetEnabled(bool) {}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (s terminalSubmit) SetLabel(label string) {
	if label == widget.SubmittingLabel {
		fmt.Fprintln(s.t.out, label)
	}
}

type terminalResults struct{ t *Terminal }

func (r terminalResults) Show(lines []widget.ProfileLine) { r.t.printer.PrintProfile(lines) }
func (terminalResults) Hide()                             {}
