package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/woozymasta/edrp-bridge/internal/vars"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public EDRP API endpoint.
const DefaultBaseURL = "http://edrp-api.danowebstudios.com"

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 1 << 20

// ErrStatus is returned by a Transport when the API answers with a non-success status.
var ErrStatus = errors.New("unexpected response status")

// Transport is the request primitive the Client is built on.
// The path always carries a leading slash; implementations prefix their base URL.
type Transport interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string) (string, error)
}

// HTTPTransport sends requests to the EDRP API over HTTP.
type HTTPTransport struct {
	// limiter caps outbound requests; nil disables the cap.
	limiter *rate.Limiter

	client    *http.Client
	baseURL   string
	userAgent string
}

// HTTPOptions configures an HTTPTransport.
type HTTPOptions struct {
	// BaseURL of the API without trailing slash
	BaseURL string

	// Timeout of a single round-trip
	Timeout time.Duration

	// RateCount requests allowed within RateWindow, zero disables the cap
	RateCount  int
	RateWindow time.Duration
}

// NewHTTPTransport creates a transport for the given options.
func NewHTTPTransport(opts HTTPOptions) *HTTPTransport {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	t := &HTTPTransport{
		client:    &http.Client{Timeout: opts.Timeout},
		baseURL:   baseURL,
		userAgent: vars.UserAgent(),
	}

	if opts.RateCount > 0 && opts.RateWindow > 0 {
		limit := rate.Limit(float64(opts.RateCount) / opts.RateWindow.Seconds())
		t.limiter = rate.NewLimiter(limit, opts.RateCount)
	}

	return t
}

// BaseURL returns the API base URL requests are sent to.
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

// Get issues a GET request and returns the JSON body.
func (t *HTTPTransport) Get(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := t.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("GET %s: response is not valid JSON", path)
	}

	return json.RawMessage(body), nil
}

// Post issues a body-less POST request and returns the response text.
func (t *HTTPTransport) Post(ctx context.Context, path string) (string, error) {
	body, err := t.do(ctx, http.MethodPost, path)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (t *HTTPTransport) do(ctx context.Context, method, path string) ([]byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s %s: rate limit wait: %w", method, path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	// The API only ever answers 200 on success
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%s %s: %w %d", method, path, ErrStatus, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}
