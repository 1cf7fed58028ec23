package server

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/jonathan/resume-intake/internal/widget"
)

const (
	// alertBuffer is how many alerts a slow stream may fall behind by.
	alertBuffer = 16
	// maxPendingAlerts bounds alerts raised while no page is connected.
	maxPendingAlerts = 8
)

// ViewState is what one session's page displays. It is the data of the
// "widget" template.
type ViewState struct {
	DragOver        bool
	Content         widget.DropZoneContent
	FileInfoVisible bool
	FileInfo        string
	FormVisible     bool
	FormResets      int
	BannerVisible   bool
	SuccessMessage  string
	SubmitEnabled   bool
	SubmitLabel     string
	ResultsVisible  bool
	Results         []widget.ProfileLine
}

// Subscription is one connected event stream. Renders coalesce: the stream
// re-renders the latest state, so a full render channel drops the signal.
type Subscription struct {
	render chan struct{}
	alerts chan string
	browse chan struct{}
}

// View implements every widget surface as state rendered to HTML and
// pushed to subscribed pages.
type View struct {
	tmpl *template.Template

	mu      sync.Mutex
	st      ViewState
	subs    map[*Subscription]struct{}
	pending []string
}

// NewView creates an empty view rendering with tmpl's "widget" template.
func NewView(tmpl *template.Template) *View {
	return &View{
		tmpl: tmpl,
		st:   ViewState{SuccessMessage: widget.SuccessMessage},
		subs: make(map[*Subscription]struct{}),
	}
}

// Surfaces returns the view as widget surfaces.
func (v *View) Surfaces() widget.Surfaces {
	return widget.Surfaces{
		DropZone:      dropZone{v},
		Picker:        picker{v},
		FileInfo:      fileInfo{v},
		Form:          form{v},
		SuccessBanner: banner{v},
		Submit:        submitButton{v},
		Results:       results{v},
		Alerts:        v,
	}
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.st
	st.Results = append([]widget.ProfileLine(nil), v.st.Results...)
	return st
}

// RenderHTML renders the current state as the widget fragment.
func (v *View) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, "widget", v.Snapshot()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Alert queues message for every connected page. With no page connected
// it is held until one subscribes.
func (v *View) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.subs) == 0 {
		if len(v.pending) < maxPendingAlerts {
			v.pending = append(v.pending, message)
		}
		return
	}
	for sub := range v.subs {
		select {
		case sub.alerts <- message:
		default:
		}
	}
}

// Subscribe registers a stream. The first render is signalled right away
// and held alerts are delivered. The returned func unsubscribes.
func (v *View) Subscribe() (*Subscription, func()) {
	sub := &Subscription{
		render: make(chan struct{}, 1),
		alerts: make(chan string, alertBuffer),
		browse: make(chan struct{}, 1),
	}
	sub.render <- struct{}{}

	v.mu.Lock()
	v.subs[sub] = struct{}{}
	for _, msg := range v.pending {
		sub.alerts <- msg
	}
	v.pending = nil
	v.mu.Unlock()

	return sub, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, sub)
	}
}

// Subscribers returns the number of connected streams.
func (v *View) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// update applies fn to the state and signals every subscription.
func (v *View) update(fn func(st *ViewState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.st)
	for sub := range v.subs {
		select {
		case sub.render <- struct{}{}:
		default:
		}
	}
}

func (v *View) openPicker() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for sub := range v.subs {
		select {
		case sub.browse <- struct{}{}:
		default:
		}
	}
}

type dropZone struct{ v *View }

func (d dropZone) SetDragOver(active bool) {
	d.v.update(func(st *ViewState) { st.DragOver = active })
}

func (d dropZone) SetContent(content widget.DropZoneContent) {
	d.v.update(func(st *ViewState) { st.Content = content })
}

type picker struct{ v *View }

func (p picker) Open() { p.v.openPicker() }

type fileInfo struct{ v *View }

func (f fileInfo) Show(text string) {
	f.v.update(func(st *ViewState) {
		st.FileInfoVisible = true
		st.FileInfo = text
	})
}

func (f fileInfo) Hide() {
	f.v.update(func(st *ViewState) { st.FileInfoVisible = false })
}

type form struct{ v *View }

func (f form) Show()  { f.v.update(func(st *ViewState) { st.FormVisible = true }) }
func (f form) Hide()  { f.v.update(func(st *ViewState) { st.FormVisible = false }) }
func (f form) Reset() { f.v.update(func(st *ViewState) { st.FormResets++ }) }

type banner struct{ v *View }

func (b banner) Show() { b.v.update(func(st *ViewState) { st.BannerVisible = true }) }
func (b banner) Hide() { b.v.update(func(st *ViewState) { st.BannerVisible = false }) }

type submitButton struct{ v *View }

func (s submitButton) SetEnabled(enabled bool) {
	s.v.update(func(st *ViewState) { st.SubmitEnabled = enabled })
}

func (s submitButton) SetLabel(label string) {
	s.v.update(func(st *ViewState) { st.SubmitLabel = label })
}

type results struct{ v *View }

func (r results) Show(lines []widget.ProfileLine) {
	r.v.update(func(st *ViewState) {
		st.ResultsVisible = true
		st.Results = append([]widget.ProfileLine(nil), lines...)
	})
}

func (r results) Hide() {
	r.v.update(func(st *ViewState) { st.ResultsVisible = false })
}
