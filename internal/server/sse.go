package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSE event names sent to the page.
const (
	EventRender = "render"
	EventAlert  = "alert"
	EventBrowse = "browse"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewSSEWriter creates a new SSE writer. It fails when the response
// cannot be flushed incrementally.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	rc := http.NewResponseController(w)

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	if err := rc.Flush(); err != nil {
		return nil, fmt.Errorf("streaming not supported: %w", err)
	}
	return &SSEWriter{w: w, rc: rc}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	return s.rc.Flush()
}

// WriteComment sends a comment line, which clients ignore. It keeps idle
// connections open through proxies.
func (s *SSEWriter) WriteComment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	return s.rc.Flush()
}

// WriteRender sends the widget fragment.
func (s *SSEWriter) WriteRender(html string) error {
	return s.WriteEvent(EventRender, map[string]string{"html": html})
}

// WriteAlert sends a message for the page to show with alert().
func (s *SSEWriter) WriteAlert(message string) error {
	return s.WriteEvent(EventAlert, map[string]string{"message": message})
}

// WriteBrowse asks the page to open its file chooser.
func (s *SSEWriter) WriteBrowse() error {
	return s.WriteEvent(EventBrowse, struct{}{})
}
