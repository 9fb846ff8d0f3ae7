// Package verify probes the source URLs of normalized results to confirm
// they are still reachable. Verification is strictly additive: it never
// changes a result's classification.
package verify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"footprint/internal/model"
)

const verifyMaxRetries = 3

// verifySleepFunc is the sleep function used between retries (injectable for tests).
var verifySleepFunc = time.Sleep

// Result is the outcome of probing one source URL.
type Result struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Accessible  bool   `json:"accessible"`
	StatusCode  int    `json:"statusCode,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	Skipped     bool   `json:"skipped,omitempty"` // robots.txt disallowed
	Error       string `json:"error,omitempty"`
}

// Verifier probes source URLs concurrently, bounded by a worker limit,
// per-domain rate limiting and robots.txt compliance.
type Verifier struct {
	httpClient *http.Client
	workers    int
	robots     *RobotsChecker // nil when robots compliance is disabled
	limiter    *DomainLimiter
	log        zerolog.Logger
}

// New creates a Verifier.
func New(cfg model.VerifyConfig, rl model.RateLimitConfig, userAgent string, log zerolog.Logger) *Verifier {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 10
	}

	var robots *RobotsChecker
	if cfg.RespectRobots {
		robots = NewRobotsChecker(userAgent, cfg.Timeout)
	}

	return &Verifier{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		workers: workers,
		robots:  robots,
		limiter: NewDomainLimiter(rl.RequestsPerSecond, rl.Burst),
		log:     log,
	}
}

// VerifyAll probes every result with an http(s) source URL and returns one
// Result per probed entry, in input order.
func (v *Verifier) VerifyAll(ctx context.Context, results []model.NormalizedResult) []Result {
	probed := make([]model.NormalizedResult, 0, len(results))
	for _, r := range results {
		if strings.HasPrefix(r.SourceURL, "http://") || strings.HasPrefix(r.SourceURL, "https://") {
			probed = append(probed, r)
		}
	}
	if len(probed) == 0 {
		return []Result{}
	}

	out := make([]Result, len(probed))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.workers)

	for i, r := range probed {
		wg.Add(1)
		go func(idx int, res model.NormalizedResult) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				out[idx] = Result{ID: res.ID, URL: res.SourceURL, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			out[idx] = v.verifyWithRetry(ctx, res)
		}(i, r)
	}

	wg.Wait()
	return out
}

// verifyWithRetry retries transient failures with exponential backoff.
func (v *Verifier) verifyWithRetry(ctx context.Context, res model.NormalizedResult) Result {
	var result Result
	for attempt := 0; attempt < verifyMaxRetries; attempt++ {
		result = v.verifyOne(ctx, res)
		if !isRetryable(result) {
			return result
		}
		if attempt < verifyMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			verifySleepFunc(backoff)
		}
	}
	return result
}

func (v *Verifier) verifyOne(ctx context.Context, res model.NormalizedResult) Result {
	result := Result{ID: res.ID, URL: res.SourceURL}

	if v.robots != nil && !v.robots.IsAllowed(ctx, res.SourceURL) {
		result.Skipped = true
		v.log.Debug().Str("url", res.SourceURL).Msg("robots.txt disallows probing")
		return result
	}

	if err := v.limiter.Wait(ctx, res.SourceURL); err != nil {
		result.Error = fmt.Sprintf("rate limit: %v", err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, res.SourceURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Accessible = true
	}
	if resp.Request.URL.String() != res.SourceURL {
		result.RedirectURL = resp.Request.URL.String()
	}

	return result
}

// isRetryable reports whether a probe outcome indicates a transient failure.
func isRetryable(result Result) bool {
	if result.Skipped {
		return false
	}
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.Error != "" {
		s := strings.ToLower(result.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
