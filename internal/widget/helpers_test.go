package widget

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jonathan/resume-intake/internal/types"
	"github.com/jonathan/resume-intake/internal/upload"
)

// viewState is what the widget currently displays.
type viewState struct {
	dragOver        bool
	content         DropZoneContent
	pickerOpened    int
	fileInfoVisible bool
	fileInfoText    string
	formVisible     bool
	formResets      int
	bannerVisible   bool
	submitEnabled   bool
	submitLabel     string
	resultsVisible  bool
	results         []ProfileLine
	alerts          []string
}

// fakeView records what the widget displays.
type fakeView struct {
	mu sync.Mutex
	st viewState
}

func (v *fakeView) SetDragOver(active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.dragOver = active
}

func (v *fakeView) SetContent(c DropZoneContent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.content = c
}

func (v *fakeView) Open() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.pickerOpened++
}

func (v *fakeView) SetEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.submitEnabled = enabled
}

func (v *fakeView) SetLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.submitLabel = label
}

func (v *fakeView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.alerts = append(v.st.alerts, message)
}

func (v *fakeView) snapshot() viewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.st
	st.results = append([]ProfileLine(nil), v.st.results...)
	st.alerts = append([]string(nil), v.st.alerts...)
	return st
}

type fakeFileInfo struct{ v *fakeView }

func (f fakeFileInfo) Show(text string) {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.fileInfoVisible = true
	f.v.st.fileInfoText = text
}

func (f fakeFileInfo) Hide() {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.fileInfoVisible = false
}

type fakeForm struct{ v *fakeView }

func (f fakeForm) Show() {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.formVisible = true
}

func (f fakeForm) Hide() {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.formVisible = false
}

func (f fakeForm) Reset() {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.formResets++
}

type fakeBanner struct{ v *fakeView }

func (f fakeBanner) Show() {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.bannerVisible = true
}

func (f fakeBanner) Hide() {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.bannerVisible = false
}

type fakeResults struct{ v *fakeView }

func (f fakeResults) Show(lines []ProfileLine) {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.resultsVisible = true
	f.v.st.results = lines
}

func (f fakeResults) Hide() {
	f.v.mu.Lock()
	defer f.v.mu.Unlock()
	f.v.st.resultsVisible = false
}

func (v *fakeView) surfaces() Surfaces {
	return Surfaces{
		DropZone:      v,
		Picker:        v,
		FileInfo:      fakeFileInfo{v},
		Form:          fakeForm{v},
		SuccessBanner: fakeBanner{v},
		Submit:        v,
		Results:       fakeResults{v},
		Alerts:        v,
	}
}

// fakeSubmitter records submissions and answers with fn.
type fakeSubmitter struct {
	mu       sync.Mutex
	calls    int
	names    []string
	contents []string
	fn       func(ctx context.Context) (*upload.Reply, error)
}

func (s *fakeSubmitter) SubmitResume(ctx context.Context, filename string, content io.Reader) (*upload.Reply, error) {
	data, _ := io.ReadAll(content)

	s.mu.Lock()
	s.calls++
	s.names = append(s.names, filename)
	s.contents = append(s.contents, string(data))
	fn := s.fn
	s.mu.Unlock()

	if fn == nil {
		return acceptedReply(nil), nil
	}
	return fn(ctx)
}

func (s *fakeSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func acceptedReply(profile *types.ExtractedProfile) *upload.Reply {
	return &upload.Reply{
		StatusCode: 201,
		Result: types.SubmissionResult{
			Success: true,
			Message: "Currículo enviado com sucesso",
			Data:    &types.SubmissionData{ID: "resume_123", AIData: profile},
		},
	}
}

// fakeScheduler captures the reset task so tests can fire it.
type fakeScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	tasks  []func()
	timers []*fakeTimer
}

type fakeTimer struct {
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &fakeTimer{}
	s.delays = append(s.delays, d)
	s.tasks = append(s.tasks, f)
	s.timers = append(s.timers, timer)
	return timer
}

// fire runs the most recently scheduled task, as the timer would.
func (s *fakeScheduler) fire() {
	s.mu.Lock()
	f := s.tasks[len(s.tasks)-1]
	s.mu.Unlock()
	f()
}

// fakeRecorder collects outcomes.
type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *fakeRecorder) ObserveSubmission(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func bytesOfSize(n int) []byte {
	return make([]byte, n)
}
