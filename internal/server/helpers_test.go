package server

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-intake/internal/server/ratelimit"
	"github.com/jonathan/resume-intake/internal/types"
	"github.com/jonathan/resume-intake/internal/upload"
)

// stubSubmitter accepts every submission.
type stubSubmitter struct {
	mu    sync.Mutex
	names []string
}

func (s *stubSubmitter) SubmitResume(_ context.Context, filename string, content io.Reader) (*upload.Reply, error) {
	_, _ = io.Copy(io.Discard, content)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, filename)
	return &upload.Reply{
		StatusCode: http.StatusCreated,
		Result:     types.SubmissionResult{Success: true},
	}, nil
}

type testEnv struct {
	server *Server
	http   *httptest.Server
	client *http.Client
}

// newTestEnv serves a Server whose submissions go to intake. Rate limiting
// is off unless limiter is set.
func newTestEnv(t *testing.T, cfg Config, intake http.HandlerFunc, limiter *ratelimit.Limiter) *testEnv {
	t.Helper()

	api := httptest.NewServer(intake)
	t.Cleanup(api.Close)

	client, err := upload.New(api.URL, nil)
	require.NoError(t, err)

	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	s, err := New(cfg, client,
		WithLimiter(limiter),
		WithLogger(log.New(io.Discard, "", 0)),
	)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	// Runs before ts.Close so that event streams end first.
	t.Cleanup(s.Close)

	return &testEnv{
		server: s,
		http:   ts,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// startSession follows GET / and returns the session base path.
func (e *testEnv) startSession(t *testing.T) string {
	t.Helper()
	resp, err := e.client.Get(e.http.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	return resp.Header.Get("Location")
}

func (e *testEnv) session(t *testing.T, base string) *Session {
	t.Helper()
	sess, err := e.server.Sessions().Get(strings.TrimPrefix(base, "/w/"))
	require.NoError(t, err)
	return sess
}

func (e *testEnv) post(t *testing.T, path, contentType string, body io.Reader) *http.Response {
	t.Helper()
	resp, err := e.client.Post(e.http.URL+path, contentType, body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

type filePart struct {
	name    string
	content []byte
}

// postFiles sends the parts as a multipart form under the "file" field.
func (e *testEnv) postFiles(t *testing.T, path string, files ...filePart) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "ignored"))
	for _, f := range files {
		part, err := mw.CreateFormFile(fileField, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return e.post(t, path, mw.FormDataContentType(), &buf)
}

type sseEvent struct {
	name string
	data string
}

// openEvents connects to the session's event stream and returns its
// parsed events. The stream closes with the test.
func (e *testEnv) openEvents(t *testing.T, base string) <-chan sseEvent {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.http.URL+base+"/events", nil)
	require.NoError(t, err)
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan sseEvent, 64)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		var ev sseEvent
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), 1<<20)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if ev.name != "" {
					events <- ev
				}
				ev = sseEvent{}
			case strings.HasPrefix(line, "event: "):
				ev.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.data = strings.TrimPrefix(line, "data: ")
			}
		}
	}()
	return events
}

// waitEvent returns the first event named name for which match is true.
func waitEvent(t *testing.T, events <-chan sseEvent, name string, match func(sseEvent) bool) sseEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed while waiting for %q", name)
			if ev.name == name && (match == nil || match(ev)) {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q event", name)
		}
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Port = 0
	// Long enough that no test sees the auto-reset.
	cfg.Widget.ResetDelay = time.Hour
	return cfg
}
