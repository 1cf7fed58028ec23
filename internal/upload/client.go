// Package upload provides the HTTP client that submits resumes to the intake API.
// It centralizes the multipart encoding and response decoding used by the widget.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-intake/internal/schemas"
	"github.com/jonathan/resume-intake/internal/types"
)

const (
	// ResumesPath is the endpoint that accepts resume uploads.
	ResumesPath = "/api/resumes"
	// HealthPath is the endpoint reporting API liveness.
	HealthPath = "/api/health"
	// FieldName is the multipart field carrying the file.
	FieldName = "resume"
)

// Error represents an error while talking to the intake API.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("upload error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Reply is a decoded response from POST /api/resumes.
type Reply struct {
	StatusCode int
	Result     types.SubmissionResult
	// SchemaErr is set when the body is JSON but does not match the
	// documented shape. It is diagnostic only: Result is still decoded
	// leniently, and is left zero only for a non-object body.
	SchemaErr error
}

// OK reports whether the HTTP status is in the 2xx range.
func (r *Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Accepted reports whether the submission succeeded: a 2xx status with a
// truthy success field.
func (r *Reply) Accepted() bool {
	return r.OK() && r.Result.Success
}

// Options configures the client.
type Options struct {
	// HTTPClient is used for all requests. The default client has no
	// timeout; requests end when ctx does.
	HTTPClient *http.Client
}

// DefaultOptions returns the default client options.
func DefaultOptions() *Options {
	return &Options{
		HTTPClient: &http.Client{},
	}
}

// Client submits resumes to one intake API host.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{
			URL:     baseURL,
			Message: "invalid base URL",
			Cause:   err,
		}
	}

	return &Client{baseURL: parsed, httpClient: opts.HTTPClient}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = ""
	return u.String()
}

// SubmitResume posts the file as multipart form data under the "resume" field.
// Transport failures, non-JSON bodies and a null body are returned as
// *Error; any other JSON body yields a Reply, whatever the status code.
func (c *Client) SubmitResume(ctx context.Context, filename string, content io.Reader) (*Reply, error) {
	target := c.endpoint(ResumesPath)

	body, contentType, err := encodeMultipart(filename, content)
	if err != nil {
		return nil, &Error{
			URL:     target,
			Message: "failed to encode multipart body",
			Cause:   err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, &Error{
			URL:     target,
			Message: "failed to create request",
			Cause:   err,
		}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     target,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     target,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	if !json.Valid(bodyBytes) {
		return nil, &Error{
			URL:     target,
			Message: fmt.Sprintf("invalid JSON response (HTTP status %d)", resp.StatusCode),
		}
	}

	// A null body cannot be read as a result at all.
	if bytes.Equal(bytes.TrimSpace(bodyBytes), []byte("null")) {
		return nil, &Error{
			URL:     target,
			Message: fmt.Sprintf("null JSON response (HTTP status %d)", resp.StatusCode),
		}
	}

	reply := &Reply{StatusCode: resp.StatusCode}
	reply.SchemaErr = schemas.ValidateSubmissionResult(bodyBytes)
	if err := json.Unmarshal(bodyBytes, &reply.Result); err != nil && reply.SchemaErr == nil {
		reply.SchemaErr = err
	}
	return reply, nil
}

// Health calls GET /api/health and returns the reported status.
func (c *Client) Health(ctx context.Context) (string, error) {
	target := c.endpoint(HealthPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &Error{URL: target, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{URL: target, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &Error{URL: target, Message: "invalid JSON response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return payload.Status, &Error{
			URL:     target,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}
	return payload.Status, nil
}

// encodeMultipart builds a body holding a single file part.
func encodeMultipart(filename string, content io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     FieldName,
		"filename": filepath.Base(filename),
	}))
	header.Set("Content-Type", partContentType(filename))

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// partContentType guesses the MIME type from the file extension.
func partContentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
