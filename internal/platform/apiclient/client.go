// Package apiclient issues JSON calls to the appointment API. Every call
// builds its own request and carries the caller's bearer token explicitly;
// the client holds no per-user state and is safe for concurrent use.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of a failed response body is kept for logs.
const maxErrorBody = 1024

// StatusError is returned when the API answers with a non-2xx status. Its
// body is for logs only and never shown to users.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s", e.Method, e.Path, e.Status)
}

// Reason is the HTTP reason phrase without the numeric code.
func (e *StatusError) Reason() string {
	if r := http.StatusText(e.StatusCode); r != "" {
		return r
	}
	return e.Status
}

// TransportError wraps a failure to reach the API or to read its answer.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsStatus reports whether err is a non-2xx answer from the API.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsTransport reports whether err means the API could not be reached or its
// response could not be read or decoded.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = d }
}

// Client calls the appointment API rooted at a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Path joins escaped segments into an API path, e.g.
// Path("api", "GetPatientByUsername", name).
func Path(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// Get decodes the JSON answer of GET path into out.
func (c *Client) Get(ctx context.Context, token, path string, out any) error {
	return c.Do(ctx, token, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the answer into out when out is non-nil.
func (c *Client) Post(ctx context.Context, token, path string, in, out any) error {
	return c.Do(ctx, token, http.MethodPost, path, in, out)
}

// Do performs one call. It never retries. An empty 2xx body leaves out
// untouched.
func (c *Client) Do(ctx context.Context, token, method, path string, in, out any) error {
	log := zerolog.Ctx(ctx)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if in != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	} else {
		log.Warn().Str("method", method).Str("path", path).Msg("no auth token for api call")
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		req.Header.Set(echo.HeaderXRequestID, rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("path", path).Msg("api call failed")
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		se := &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(b),
		}
		log.Error().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("body", se.Body).
			Msg("api call returned error status")
		return se
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Error().Err(err).Str("method", method).Str("path", path).Msg("api response is not valid json")
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

type ctxKey struct{}

// WithRequestID stores the inbound request id so outbound calls forward it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
