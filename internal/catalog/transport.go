package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"animehub/pkg/models"
)

const maxBodyBytes = 4 << 20

// Options configures a catalog client.
type Options struct {
	BaseURL    string
	UserAgent  string
	RatePerSec float64
	Burst      int
	HTTPClient *http.Client
}

func (o Options) withDefaults(defaultURL string, defaultRate float64) Options {
	if strings.TrimSpace(o.BaseURL) == "" {
		o.BaseURL = defaultURL
	}
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.UserAgent == "" {
		o.UserAgent = "animehub/1.0"
	}
	if o.RatePerSec <= 0 {
		o.RatePerSec = defaultRate
	}
	if o.Burst <= 0 {
		o.Burst = 3
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return o
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport executes single, throttled requests against one catalog and turns
// transport failures into typed SourceErrors. It never retries.
type Transport struct {
	source     models.Source
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTransport builds a transport; empty option fields fall back to the given defaults.
func NewTransport(source models.Source, opts Options, defaultURL string, defaultRate float64) *Transport {
	opts = opts.withDefaults(defaultURL, defaultRate)
	return &Transport{
		source:     source,
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
	}
}

func (t *Transport) BaseURL() string { return t.baseURL }

// Get issues a GET against baseURL+path (path may carry a query string).
func (t *Transport) Get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return nil, models.NewSourceError(t.source, models.KindInvalidRequest, "build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	return t.Do(ctx, req)
}

// PostJSON posts body as JSON to baseURL+path.
func (t *Transport) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, models.NewSourceError(t.source, models.KindInvalidRequest, "marshal request: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, models.NewSourceError(t.source, models.KindInvalidRequest, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return t.Do(ctx, req)
}

// Do waits for the rate limiter and performs the request. Only transport-level
// failures are returned as errors; status codes are left to the caller.
func (t *Transport) Do(ctx context.Context, req *http.Request) (*Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, t.contextError(ctxErr)
		}
		// The wait would overrun the caller's deadline.
		return nil, &models.SourceError{Source: t.source, Kind: models.KindRateLimited, Message: "client throttle: " + err.Error(), Err: err}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	started := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, t.contextError(ctxErr)
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &models.SourceError{Source: t.source, Kind: models.KindTimeout, Message: err.Error(), Err: err}
		}
		return nil, &models.SourceError{Source: t.source, Kind: models.KindUnavailable,
			Message: fmt.Sprintf("request failed after %v: %v", time.Since(started).Round(time.Millisecond), err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, t.contextError(ctxErr)
		}
		return nil, &models.SourceError{Source: t.source, Kind: models.KindUnavailable, Message: "read response: " + err.Error(), Err: err}
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (t *Transport) contextError(err error) *models.SourceError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &models.SourceError{Source: t.source, Kind: models.KindTimeout, Message: "deadline exceeded", Err: err}
	}
	return &models.SourceError{Source: t.source, Kind: models.KindUnavailable, Message: "request cancelled", Err: err}
}

// StatusError classifies a non-2xx response. It returns nil for 2xx.
func StatusError(source models.Source, resp *Response) *models.SourceError {
	switch {
	case resp.Status >= 200 && resp.Status < 300:
		return nil
	case resp.Status == http.StatusNotFound:
		return models.NewSourceError(source, models.KindNotFound, "HTTP 404")
	case resp.Status == http.StatusTooManyRequests:
		msg := "HTTP 429"
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			msg += " (retry after " + ra + "s)"
		}
		return models.NewSourceError(source, models.KindRateLimited, "%s", msg)
	case resp.Status >= 500:
		return models.NewSourceError(source, models.KindUnavailable, "HTTP %d", resp.Status)
	default:
		return models.NewSourceError(source, models.KindUnavailable, "HTTP %d: %s", resp.Status, snippet(resp.Body))
	}
}

// IsEmptyBody reports a 200 with nothing in it, which callers treat as not found.
func IsEmptyBody(body []byte) bool {
	return len(bytes.TrimSpace(body)) == 0
}

// DecodeJSON unmarshals body into v, reporting failures as malformed.
func DecodeJSON(source models.Source, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &models.SourceError{Source: source, Kind: models.KindMalformed, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}
