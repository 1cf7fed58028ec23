package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jonathan/resume-intake/internal/types"
	"github.com/jonathan/resume-intake/internal/widget"
)

// fileField is the multipart field the page posts files under.
const fileField = "file"

type pageData struct {
	Base   string
	Widget ViewState
}

type filesResponse struct {
	Selected *types.SelectedFile `json:"selected"`
	Received int                 `json:"received"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// handleIndex starts a session and redirects to its page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(NewView(s.templates))
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to create session: %w", err))
		return
	}
	http.Redirect(w, r, sessionBase(sess.ID), http.StatusSeeOther)
}

// handlePage renders the full page for the session.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	data := pageData{Base: sessionBase(sess.ID), Widget: sess.View.Snapshot()}
	if err := s.templates.ExecuteTemplate(w, "page", data); err != nil {
		s.logger.Printf("[page] render failed for session %s: %v", sess.ID, err)
	}
}

// handleEvents streams renders, alerts and picker requests to the page.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	// Streams outlive the server's write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sub, unsubscribe := sess.View.Subscribe()
	defer func() {
		unsubscribe()
		sess.touch(time.Now())
	}()

	keepAlive := time.NewTicker(s.cfg.KeepAlive)
	defer keepAlive.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case <-s.streams.Done():
			return
		case <-sub.render:
			var html string
			html, err = sess.View.RenderHTML()
			if err == nil {
				err = sse.WriteRender(html)
			}
		case msg := <-sub.alerts:
			err = sse.WriteAlert(msg)
		case <-sub.browse:
			err = sse.WriteBrowse()
		case <-keepAlive.C:
			err = sse.WriteComment("keepalive")
		}
		if err != nil {
			s.logger.Printf("[events] session %s: %v", sess.ID, err)
			return
		}
	}
}

// handleBrowse records a click on the drop zone.
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	SessionFromContext(r.Context()).Widget.Browse()
	w.WriteHeader(http.StatusNoContent)
}

// handleDrag toggles the drop zone highlight: ?state=over or ?state=leave.
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	switch state := r.URL.Query().Get("state"); state {
	case "over":
		sess.Widget.DragOver()
	case "leave":
		sess.Widget.DragLeave()
	default:
		s.writeError(w, &ErrValidation{Field: "state", Message: fmt.Sprintf("must be over or leave, got %q", state)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFiles receives files chosen in the page. ?source=drop marks a drop
// on the drop zone; anything else is a file-input change.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	limit := s.cfg.MaxRequestBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	sel, err := readSelection(r, limit)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.rejectTooLarge(w, sess, limit)
			return
		}
		var validationErr *ErrValidation
		if !errors.As(err, &validationErr) {
			validationErr = &ErrValidation{Field: fileField, Message: err.Error()}
		}
		s.writeError(w, validationErr)
		return
	}

	var files []widget.File
	if sel.file != nil {
		files = []widget.File{sel.file}
	}
	if r.URL.Query().Get("source") == "drop" {
		sess.Widget.Drop(files)
	} else {
		sess.Widget.Select(files)
	}

	if sel.tooLarge {
		s.rejectTooLarge(w, sess, limit)
		return
	}

	resp := filesResponse{Received: sel.received}
	if info, ok := sess.Widget.Selected(); ok {
		resp.Selected = &info
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// rejectTooLarge answers 413 and shows the size alert, as submitting the
// file would have.
func (s *Server) rejectTooLarge(w http.ResponseWriter, sess *Session, limit int64) {
	sess.View.Alert(widget.FileTooLargeAlert(sess.Widget.Limit()))
	s.writeError(w, &ErrPayloadTooLarge{Limit: limit})
}

// selection is what a files request chose: the first file part, and how
// many file parts were sent.
type selection struct {
	file     widget.File
	received int
	// tooLarge marks a first file cut off by the request cap. Only its
	// metadata is kept.
	tooLarge bool
}

// readSelection streams the multipart body. The first file part is kept
// in memory; later parts are drained.
func readSelection(r *http.Request, limit int64) (selection, error) {
	var sel selection
	mr, err := r.MultipartReader()
	if err != nil {
		return sel, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return sel, nil
		}
		if err == nil {
			err = sel.add(part, r.ContentLength, limit)
			_ = part.Close()
		}

		var maxErr *http.MaxBytesError
		switch {
		case err != nil && sel.file != nil && errors.As(err, &maxErr):
			// Only ignored extras were cut off.
			return sel, nil
		case err != nil:
			return sel, err
		case sel.tooLarge:
			return sel, nil
		}
	}
}

func (sel *selection) add(part *multipart.Part, declared, limit int64) error {
	if part.FormName() != fileField {
		_, err := io.Copy(io.Discard, part)
		return err
	}

	info := types.SelectedFile{Name: part.FileName()}
	if err := info.Validate(); err != nil {
		return &ErrValidation{Field: fileField, Message: err.Error()}
	}
	sel.received++
	if sel.file != nil {
		_, err := io.Copy(io.Discard, part)
		return err
	}

	// A declared length over the cap is rejected before reading content.
	if declared > limit {
		sel.file = widget.NewOversizeFile(info.Name, declared)
		sel.tooLarge = true
		return nil
	}

	data, err := io.ReadAll(part)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		sel.file = widget.NewOversizeFile(info.Name, limit+1)
		sel.tooLarge = true
		return nil
	}
	if err != nil {
		return err
	}
	sel.file = widget.NewMemoryFile(info.Name, data)
	return nil
}

// handleSubmit starts a submission and answers 202 right away. The outcome
// reaches the page through the event stream.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.cfg.SubmitTimeout)
	s.submits.Add(1)
	go func() {
		defer s.submits.Done()
		defer cancel()
		if err := sess.Widget.Submit(ctx); err != nil {
			s.logger.Printf("[submit] session %s: %s: %v", sess.ID, widget.KindOf(err), err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func sessionBase(id string) string {
	return "/w/" + id
}
