// Package widget implements the resume upload widget: file selection,
// client-side validation, multipart submission and result display.
//
// A Widget owns the selection and drives the view through the Surfaces it
// is constructed with. All surface calls happen under the widget's lock,
// one event at a time, whichever goroutine delivers the event.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-intake/internal/types"
	"github.com/jonathan/resume-intake/internal/upload"
)

// OutcomeSuccess is the outcome recorded for an accepted submission.
// Failed submissions are recorded under their Kind's String().
const OutcomeSuccess = "success"

// Submitter sends a file to the intake API.
type Submitter interface {
	SubmitResume(ctx context.Context, filename string, content io.Reader) (*upload.Reply, error)
}

// Recorder observes every submit attempt.
type Recorder interface {
	ObserveSubmission(outcome string, elapsed time.Duration)
}

// Config holds the widget's limits.
type Config struct {
	// MaxFileSize is the largest accepted file in bytes.
	MaxFileSize int64
	// ResetDelay is how long after success the widget resets itself.
	ResetDelay time.Duration
	// Details adds the secondary profile fields to the results.
	Details bool
}

// DefaultConfig returns the 5 MiB / 3000 ms configuration.
func DefaultConfig() Config {
	return Config{
		MaxFileSize: DefaultMaxFileSize,
		ResetDelay:  DefaultResetDelay,
	}
}

// Option customizes a Widget.
type Option func(*Widget)

// WithScheduler replaces time.AfterFunc for the auto-reset task.
func WithScheduler(s Scheduler) Option {
	return func(w *Widget) {
		w.scheduler = s
	}
}

// WithLogger sets the logger used for connection failure diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(w *Widget) {
		w.logger = l
	}
}

// WithRecorder sets a Recorder for submit outcomes.
func WithRecorder(r Recorder) Option {
	return func(w *Widget) {
		w.recorder = r
	}
}

// Widget is the upload widget controller.
type Widget struct {
	mu        sync.Mutex
	cfg       Config
	surfaces  Surfaces
	submitter Submitter
	scheduler Scheduler
	logger    *log.Logger
	recorder  Recorder

	state         State
	file          File
	submitEnabled bool
	inFlight      bool
	resetTask     Timer
	resetSeq      uint64
	closed        bool
}

// New creates a widget and renders its initial empty state.
func New(cfg Config, surfaces Surfaces, submitter Submitter, opts ...Option) (*Widget, error) {
	if err := surfaces.validate(); err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, errors.New("widget: submitter is required")
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = DefaultResetDelay
	}

	w := &Widget{
		cfg:       cfg,
		surfaces:  surfaces,
		submitter: submitter,
		scheduler: realScheduler{},
		logger:    log.Default(),
		state:     StateEmpty,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.surfaces.DropZone.SetDragOver(false)
	w.surfaces.DropZone.SetContent(ContentFor(StateEmpty, cfg.MaxFileSize))
	w.surfaces.FileInfo.Hide()
	w.surfaces.SuccessBanner.Hide()
	w.surfaces.Form.Show()
	w.enableSubmit()
	return w, nil
}

// Browse opens the file chooser, as a click on the drop zone does.
func (w *Widget) Browse() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.surfaces.Picker != nil {
		w.surfaces.Picker.Open()
	}
}

// DragOver highlights the drop zone. It returns true: the caller must
// prevent the default action so that a drop is permitted.
func (w *Widget) DragOver() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.surfaces.DropZone.SetDragOver(true)
	return true
}

// DragLeave removes the drop zone highlight.
func (w *Widget) DragLeave() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.surfaces.DropZone.SetDragOver(false)
}

// Drop takes the first dropped file as the active selection. Extra files
// are ignored.
func (w *Widget) Drop(files []File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.surfaces.DropZone.SetDragOver(false)
	w.choose(files, EventDrop)
}

// Select handles a file-input change; the first file becomes active.
func (w *Widget) Select(files []File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.choose(files, EventSelect)
}

func (w *Widget) choose(files []File, ev Event) {
	if len(files) == 0 || files[0] == nil {
		return
	}

	w.file = files[0]
	w.state = Transition(w.state, ev)

	w.surfaces.FileInfo.Show(FileInfoText(w.file.Info()))
	w.surfaces.DropZone.SetContent(ContentFor(w.state, w.cfg.MaxFileSize))
	if w.surfaces.Results != nil {
		w.surfaces.Results.Hide()
	}
}

// Submit validates the active file and sends it. It blocks until the
// server replies; ctx bounds the request. The returned error is nil on
// success, a *ValidationError, *ServerRejectedError or *ConnectionError
// on the matching failure path, or ErrSubmitDisabled / ErrClosed.
func (w *Widget) Submit(ctx context.Context) error {
	start := time.Now()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if !w.submitEnabled {
		w.mu.Unlock()
		return ErrSubmitDisabled
	}
	if err := w.validate(); err != nil {
		w.surfaces.Alerts.Alert(alertFor(err))
		w.mu.Unlock()
		w.observe(KindOf(err).String(), start)
		return err
	}

	file := w.file
	w.inFlight = true
	w.submitEnabled = false
	w.surfaces.Submit.SetEnabled(false)
	w.surfaces.Submit.SetLabel(SubmittingLabel)
	w.mu.Unlock()

	reply, sendErr := w.send(ctx, file)
	if sendErr == nil && reply == nil {
		sendErr = errors.New("empty reply")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false

	var err error
	switch {
	case sendErr != nil:
		w.logger.Printf("[widget] connection error: %v", sendErr)
		err = &ConnectionError{Cause: sendErr}
	case reply.Accepted():
		err = nil
		if reply.SchemaErr != nil {
			w.logger.Printf("[widget] accepted reply does not match the response schema: %s",
				strings.Join(strings.Fields(reply.SchemaErr.Error()), " "))
		}
	default:
		err = &ServerRejectedError{
			StatusCode: reply.StatusCode,
			Message:    reply.Result.Error,
			Cause:      reply.SchemaErr,
		}
	}

	if w.closed {
		w.observe(outcomeOf(err), start)
		return err
	}

	if err != nil {
		w.state = Transition(w.state, EventSubmitFailure)
		w.surfaces.Alerts.Alert(alertFor(err))
		w.enableSubmit()
	} else {
		w.state = Transition(w.state, EventSubmitSuccess)
		w.showSuccess(reply.Result.Profile())
	}
	w.observe(outcomeOf(err), start)
	return err
}

// validate runs the submit-time checks in order.
func (w *Widget) validate() error {
	if w.file == nil {
		return &ValidationError{Kind: KindNoFileSelected}
	}
	if size := w.file.Info().SizeBytes; size > w.cfg.MaxFileSize {
		return &ValidationError{Kind: KindFileTooLarge, Size: size, Limit: w.cfg.MaxFileSize}
	}
	return nil
}

func (w *Widget) send(ctx context.Context, file File) (*upload.Reply, error) {
	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Info().Name, err)
	}
	defer func() { _ = content.Close() }()

	return w.submitter.SubmitResume(ctx, file.Info().Name, content)
}

func (w *Widget) showSuccess(profile *types.ExtractedProfile) {
	w.surfaces.Form.Hide()
	w.surfaces.SuccessBanner.Show()
	if profile != nil && w.surfaces.Results != nil {
		lines := RenderProfile(profile)
		if w.cfg.Details {
			lines = append(lines, RenderDetails(profile)...)
		}
		w.surfaces.Results.Show(lines)
	}

	w.resetSeq++
	seq := w.resetSeq
	w.resetTask = w.scheduler.AfterFunc(w.cfg.ResetDelay, func() {
		w.reset(seq)
	})
}

// reset returns the widget to its initial state once the success banner
// has been shown for ResetDelay. The results panel stays until the next
// selection.
func (w *Widget) reset(seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || seq != w.resetSeq {
		return
	}
	w.resetTask = nil

	w.surfaces.Form.Reset()
	w.file = nil
	w.surfaces.FileInfo.Hide()
	w.surfaces.SuccessBanner.Hide()
	w.surfaces.Form.Show()
	w.enableSubmit()

	w.state = Transition(w.state, EventResetTimer)
	w.surfaces.DropZone.SetContent(ContentFor(w.state, w.cfg.MaxFileSize))
}

func (w *Widget) enableSubmit() {
	w.submitEnabled = true
	w.surfaces.Submit.SetEnabled(true)
	w.surfaces.Submit.SetLabel(SubmitLabel)
}

// Close cancels a pending auto-reset. Later events still update the
// surfaces, but Submit returns ErrClosed.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.resetTask != nil {
		w.resetTask.Stop()
		w.resetTask = nil
	}
}

// State returns the drop zone state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Selected returns the active file's metadata, if any.
func (w *Widget) Selected() (types.SelectedFile, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return types.SelectedFile{}, false
	}
	return w.file.Info(), true
}

// submitting reports whether a submission is in flight.
func (w *Widget) submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// ResetPending reports whether the auto-reset task is scheduled.
func (w *Widget) ResetPending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resetTask != nil
}

// Limit returns the maximum accepted file size in bytes.
func (w *Widget) Limit() int64 {
	return w.cfg.MaxFileSize
}

func (w *Widget) observe(outcome string, start time.Time) {
	if w.recorder != nil {
		w.recorder.ObserveSubmission(outcome, time.Since(start))
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return KindOf(err).String()
}

// alertFor returns the user-facing message for a failed submission.
func alertFor(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Kind == KindFileTooLarge {
			return FileTooLargeAlert(validationErr.Limit)
		}
		return NoFileSelectedAlert
	}

	var rejectedErr *ServerRejectedError
	if errors.As(err, &rejectedErr) {
		if rejectedErr.Message != "" {
			return rejectedErr.Message
		}
		return ServerRejectedAlert
	}

	return ConnectionAlert
}
