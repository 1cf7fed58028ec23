package main

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-intake/internal/config"
	"github.com/jonathan/resume-intake/internal/probe"
	"github.com/jonathan/resume-intake/internal/server"
	"github.com/jonathan/resume-intake/internal/server/ratelimit"
	"github.com/jonathan/resume-intake/internal/upload"
	"github.com/jonathan/resume-intake/internal/widget"
)

func intakeAPI(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		case "/api/resumes":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeResume(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	return path
}

func TestUploadCommand_Success(t *testing.T) {
	api := intakeAPI(t, http.StatusCreated, `{"success": true, "data": {"ai_data": {
		"nome_completo": "Ana Souza",
		"email": "ana@example.com",
		"principais_habilidades": ["Go", "SQL"],
		"cargo_desejado": "Backend"
	}}}`)
	resume := writeResume(t, "ana.pdf", 2048)
	extra := writeResume(t, "other.pdf", 10)

	stdout, stderr, err := execute(t, "upload", "--api-url", api.URL, resume, extra)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	assert.Contains(t, stdout, "ignoring 1:")
	assert.Contains(t, stdout, "other.pdf")
	assert.Contains(t, stdout, "✓ ana.pdf (2.00 KB)")
	assert.Contains(t, stdout, widget.SuccessMessage)
	assert.Contains(t, stdout, "Ana Souza")
	assert.Contains(t, stdout, "Go, SQL")
	assert.Contains(t, stdout, widget.NotFoundPlaceholder)
	assert.NotContains(t, stdout, "Backend")
}

func TestUploadCommand_VerboseShowsDetails(t *testing.T) {
	api := intakeAPI(t, http.StatusCreated, `{"success": true, "data": {"ai_data": {"cargo_desejado": "Backend"}}}`)
	resume := writeResume(t, "cv.pdf", 10)

	stdout, _, err := execute(t, "upload", "-v", "--api-url", api.URL, resume)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cargo desejado")
	assert.Contains(t, stdout, "Backend")
}

func TestUploadCommand_ServerRejection(t *testing.T) {
	api := intakeAPI(t, http.StatusBadRequest, `{"error": "Formato não suportado"}`)
	resume := writeResume(t, "cv.txt", 10)

	_, stderr, err := execute(t, "upload", "--api-url", api.URL, resume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server_rejected")
	assert.Contains(t, stderr, "Formato não suportado")
}

func TestUploadCommand_FileTooLarge(t *testing.T) {
	api := intakeAPI(t, http.StatusCreated, `{"success": true}`)
	resume := writeResume(t, "big.pdf", 2048)

	_, stderr, err := executeWithEnv(t, map[string]string{config.EnvMaxFileSize: "1024"},
		"upload", "--api-url", api.URL, resume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_too_large")
	assert.Contains(t, stderr, widget.FileTooLargeAlert(1024))
}

func TestUploadCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, "upload", filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}

func TestUploadCommand_NoArgs(t *testing.T) {
	_, _, err := execute(t, "upload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestUploadCommand_InvalidAPIURL(t *testing.T) {
	resume := writeResume(t, "cv.pdf", 10)
	_, _, err := execute(t, "upload", "--api-url", "localhost:5000", resume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_url")
}

func TestUploadCommand_ConfigFile(t *testing.T) {
	api := intakeAPI(t, http.StatusCreated, `{"success": true}`)
	cfgPath := filepath.Join(t.TempDir(), "intake.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("api_url: "+api.URL+"\n"), 0o644))
	resume := writeResume(t, "cv.pdf", 10)

	stdout, _, err := execute(t, "upload", "--config", cfgPath, resume)
	require.NoError(t, err)
	assert.Contains(t, stdout, widget.SuccessMessage)
}

func TestHealthCommand(t *testing.T) {
	api := intakeAPI(t, http.StatusCreated, `{}`)

	stdout, _, err := execute(t, "health", "--api-url", api.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✅")
	assert.Contains(t, stdout, "ok")
}

func TestHealthCommand_Unreachable(t *testing.T) {
	api := intakeAPI(t, http.StatusCreated, `{}`)
	url := api.URL
	api.Close()

	stdout, _, err := execute(t, "health", "--api-url", url)
	require.Error(t, err)
	assert.Contains(t, stdout, "❌")
	assert.Contains(t, stdout, "unreachable")
}

func TestProbeCommand(t *testing.T) {
	api := intakeAPI(t, http.StatusCreated, `{"success": true}`)
	client, err := upload.New(api.URL, nil)
	require.NoError(t, err)

	srv, err := server.New(server.DefaultConfig(), client,
		server.WithLimiter(ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})),
		server.WithLogger(log.New(io.Discard, "", 0)),
	)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Close)

	stdout, _, err := execute(t, "probe", ts.URL+"/")
	require.NoError(t, err)
	assert.Contains(t, stdout, "UPLOAD WIDGET")
	assert.Contains(t, stdout, ts.URL+"/w/")
	assert.Contains(t, stdout, "Connected: no")
	assert.Contains(t, stdout, "Enviar Currículo (enabled: yes)")
}

func TestProbeCommand_NotAWidgetPage(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	t.Cleanup(page.Close)

	_, _, err := execute(t, "probe", page.URL)
	assert.ErrorIs(t, err, probe.ErrNoWidget)
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	_, _, err := executeWithEnv(t, map[string]string{config.EnvPort: "99999"}, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}
