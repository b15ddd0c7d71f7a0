// Package api is the HTTP client for the GPTeasers quiz API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

// Endpoint paths.
const (
	PathGenerateQuiz    = "/GenerateQuiz"
	PathGenerateImage   = "/GenerateImage"
	PathSupportedModels = "/SupportedModels"
)

// DefaultBaseURL is the hosted quiz API.
const DefaultBaseURL = "https://gpteasers.jollyocean-6818c6e0.ukwest.azurecontainerapps.io"

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, without a trailing slash. Required.
	BaseURL string

	// Timeout bounds plain requests. Question streams are not bounded.
	Timeout time.Duration

	// RateLimit is the number of requests per second allowed; 0 disables
	// limiting.
	RateLimit float64
	Burst     int

	HTTPClient *http.Client

	// Events receives one record per outbound request when set.
	Events store.EventRepo
	Logger *zap.Logger
}

// Client talks to the quiz API. It streams questions, fetches topic
// images and lists supported models. It is safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger

	httpClient *http.Client
}

// New returns a client for opts.BaseURL. Requests are rate limited and, when
// opts.Events is set, recorded.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if opts.Events != nil {
		clone := *hc
		clone.Transport = &recordingTransport{inner: hc.Transport, events: opts.Events, logger: logger}
		hc = &clone
	}

	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		limiter:    limiter,
		logger:     logger,
		httpClient: hc,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// do sends a GET request after waiting for the limiter. Transport failures
// become *NetworkError; the caller owns the response body.
func (c *Client) do(ctx context.Context, path string, q url.Values, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Endpoint: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: path, Err: err}
	}
	return resp, nil
}

// getBody performs a bounded GET and returns the body of a 2xx response.
func (c *Client) getBody(ctx context.Context, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, path, q, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &NetworkError{Endpoint: path, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseRequestError(path, resp.StatusCode, raw)
	}
	return raw, nil
}

func parseRequestError(path string, status int, raw []byte) error {
	var env struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &env); err == nil && strings.TrimSpace(env.Error) != "" {
		msg = strings.TrimSpace(env.Error)
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &RequestError{Endpoint: path, StatusCode: status, Message: msg}
}
