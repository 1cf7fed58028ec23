package probe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-intake/internal/widget"
)

// ErrNoWidget is returned when a page holds no upload widget.
var ErrNoWidget = errors.New("page has no upload widget")

// Snapshot is what a widget page displays.
type Snapshot struct {
	// Connected is set once the page script opened its event stream. Only
	// browser-rendered pages have it.
	Connected     bool
	DropZone      widget.DropZoneContent
	DragOver      bool
	FileInput     bool
	FormVisible   bool
	FileInfo      string
	SubmitEnabled bool
	SubmitLabel   string
	BannerVisible bool
	Banner        string
	Results       []widget.ProfileLine
}

// Inspect parses a page and reads the widget's visible state. Hidden
// elements report as empty.
func Inspect(html string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	area := doc.Find("#uploadArea")
	if area.Length() == 0 {
		return nil, ErrNoWidget
	}

	connected, _ := doc.Find("body").Attr("data-connected")
	submit := doc.Find("#submitBtn")
	_, disabled := submit.Attr("disabled")

	s := &Snapshot{
		Connected: connected == "true",
		DropZone: widget.DropZoneContent{
			Icon:     text(area.Find(".upload-icon")),
			Text:     text(area.Find(".upload-text")),
			Hint:     text(area.Find(".upload-hint")),
			Uploaded: area.HasClass("uploaded"),
		},
		DragOver:      area.HasClass("dragover"),
		FileInput:     doc.Find("#fileInput").Length() > 0,
		FormVisible:   visible(doc.Find("#uploadForm")),
		SubmitEnabled: submit.Length() > 0 && !disabled,
		SubmitLabel:   text(submit),
		BannerVisible: visible(doc.Find("#successMessage")),
	}

	if info := doc.Find("#fileInfo"); visible(info) {
		s.FileInfo = text(info.Find("#fileName"))
	}
	if s.BannerVisible {
		s.Banner = text(doc.Find("#successMessage"))
	}
	if visible(doc.Find("#resultsContainer")) {
		doc.Find("#extractedData p").Each(func(_ int, p *goquery.Selection) {
			label := text(p.Find("strong"))
			value := strings.TrimSpace(strings.TrimPrefix(text(p), label))
			s.Results = append(s.Results, widget.ProfileLine{
				Label: strings.TrimSuffix(label, ":"),
				Value: value,
			})
		})
	}
	return s, nil
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

func visible(sel *goquery.Selection) bool {
	if sel.Length() == 0 {
		return false
	}
	_, hidden := sel.Attr("hidden")
	return !hidden
}
