// Package client talks to the exposure analysis backend. Connection-level
// failures are retried transparently with linear backoff; HTTP-level errors
// are surfaced immediately as typed errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"footprint/internal/cache"
	"footprint/internal/model"
	"footprint/internal/session"
	"footprint/internal/util"
)

// retryBackoff is the linear backoff schedule between retry attempts; its
// length is the retry budget for network errors.
var retryBackoff = []time.Duration{1 * time.Second, 2 * time.Second}

// sleepFunc is the sleep function used between retries (injectable for tests).
var sleepFunc = time.Sleep

// Options configures the backend client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration // 0 waits indefinitely
	UserAgent  string
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
	Session    *session.Session
	Cache      cache.Cache   // optional search-response cache
	Limiter    *rate.Limiter // optional, used by batch runs
	Logger     zerolog.Logger
}

// Client is the HTTP client for the backend's search and extract endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	session    *session.Session
	cache      cache.Cache
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// New creates a backend client.
func New(opts Options) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy),
			},
		},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		session:   opts.Session,
		cache:     opts.Cache,
		limiter:   opts.Limiter,
		log:       opts.Logger,
	}
}

// Search runs GET /search?searchName= and returns the raw response. Cached
// responses are served without touching the network.
func (c *Client) Search(ctx context.Context, name string) (*model.RawSearchResponse, error) {
	cacheKey := "search:" + strings.ToLower(strings.TrimSpace(name))
	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			var raw model.RawSearchResponse
			if err := json.Unmarshal(body, &raw); err == nil {
				c.log.Debug().Str("name", name).Msg("search served from cache")
				return &raw, nil
			}
			// Cached payload no longer decodes; drop it.
			_ = c.cache.Delete(cacheKey)
		}
	}

	path := "/search?searchName=" + url.QueryEscape(name)
	body, err := c.doWithRetry(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var raw model.RawSearchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{
			Code:    CodeUnknownError,
			Message: fmt.Sprintf("decode search response: %v", err),
		}
	}

	if c.cache != nil {
		if err := c.cache.Set(cacheKey, body, 0); err != nil {
			c.log.Warn().Err(err).Msg("failed to cache search response")
		}
	}

	return &raw, nil
}

// Extract runs POST /extract with the selected results and returns the
// backend's exposure report.
func (c *Client) Extract(ctx context.Context, req model.ExtractRequest) (*model.ExposureReport, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &APIError{
			Code:    CodeUnknownError,
			Message: fmt.Sprintf("encode extract request: %v", err),
		}
	}

	body, err := c.doWithRetry(ctx, http.MethodPost, "/extract", payload)
	if err != nil {
		return nil, err
	}

	var report model.ExposureReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, &APIError{
			Code:    CodeUnknownError,
			Message: fmt.Sprintf("decode extract response: %v", err),
		}
	}

	return &report, nil
}

// doWithRetry retries connection-level failures up to the backoff budget.
// HTTP-level errors are never retried.
func (c *Client) doWithRetry(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body []byte
	var err error

	for attempt := 0; attempt <= len(retryBackoff); attempt++ {
		body, err = c.do(ctx, method, path, payload)
		if err == nil || !IsNetworkError(err) {
			return body, err
		}
		if attempt < len(retryBackoff) {
			c.log.Warn().Err(err).
				Dur("backoff", retryBackoff[attempt]).
				Int("attempt", attempt+1).
				Msg("transient backend failure, retrying")
			sleepFunc(retryBackoff[attempt])
		}
	}

	return body, err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Code: CodeNetworkError, Message: err.Error()}
		}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &APIError{
			Code:    CodeUnknownError,
			Message: fmt.Sprintf("create request: %v", err),
		}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		req.Header.Set("Authorization", c.session.Authorization())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Code: CodeNetworkError, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Code:    CodeNetworkError,
			Message: fmt.Sprintf("read body: %v", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(resp.StatusCode, body)
	}

	return body, nil
}

// newHTTPError parses the backend's {message, code} error payload into a
// typed error keyed by HTTP status.
func newHTTPError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Message
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &APIError{
		Code:    httpCode(status),
		Status:  status,
		Message: msg,
	}
}
