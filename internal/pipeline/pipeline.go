// Package pipeline orchestrates the scan and extract flows: backend search,
// result normalization, optional source verification, and optional LLM advice.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"footprint/internal/cache"
	"footprint/internal/client"
	"footprint/internal/llm"
	"footprint/internal/model"
	"footprint/internal/normalize"
	"footprint/internal/session"
	"footprint/internal/verify"
)

// Pipeline orchestrates the complete scan process.
type Pipeline struct {
	client     *client.Client
	normalizer *normalize.Normalizer
	verifier   *verify.Verifier
	advisor    *llm.Advisor // nil if disabled
	config     *model.Config
	log        zerolog.Logger
}

// New creates a pipeline with the given configuration.
func New(cfg *model.Config, sess *session.Session, log zerolog.Logger) *Pipeline {
	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		responseCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cacheDir(cfg), cfg.Cache.DiskTTL)
	}

	var advisor *llm.Advisor
	if cfg.LLM.Provider != "" {
		a, err := llm.NewAdvisor(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize LLM provider")
		} else {
			advisor = a
		}
	}

	return &Pipeline{
		client: client.New(client.Options{
			BaseURL:    cfg.Backend.BaseURL,
			Timeout:    cfg.HTTP.Timeout,
			UserAgent:  cfg.HTTP.UserAgent,
			HTTPProxy:  cfg.HTTP.HTTPProxy,
			HTTPSProxy: cfg.HTTP.HTTPSProxy,
			NoProxy:    cfg.HTTP.NoProxy,
			Session:    sess,
			Cache:      responseCache,
			Logger:     log,
		}),
		normalizer: normalize.New(log),
		verifier:   verify.New(cfg.Verify, cfg.RateLimit, cfg.HTTP.UserAgent, log),
		advisor:    advisor,
		config:     cfg,
		log:        log,
	}
}

// ScanOptions controls a single scan.
type ScanOptions struct {
	// Verify checks each result URL for accessibility
	Verify bool

	// Criteria filters the normalized results before they are returned
	Criteria normalize.Criteria
}

// ScanOutcome is the result of a scan.
type ScanOutcome struct {
	Set          *model.ResultSet
	Verification []verify.Result
}

// Scan searches for a name and normalizes the backend's response.
func (p *Pipeline) Scan(ctx context.Context, name string, opts ScanOptions) (*ScanOutcome, error) {
	raw, err := p.client.Search(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	set := p.normalizer.Normalize(raw)
	set.Results = normalize.Filter(set.Results, opts.Criteria)

	outcome := &ScanOutcome{Set: set}

	if opts.Verify {
		outcome.Verification = p.verifier.VerifyAll(ctx, set.Results)
	}

	return outcome, nil
}

// ExtractOutcome is the result of an extraction.
type ExtractOutcome struct {
	Report *model.ExposureReport
	Advice *llm.AdviseResponse // nil unless an LLM provider is configured
}

// Extract submits the selected results for deep extraction and returns the
// backend's exposure report. Advice generation failures never fail the
// extraction.
func (p *Pipeline) Extract(ctx context.Context, req model.ExtractRequest) (*ExtractOutcome, error) {
	report, err := p.client.Extract(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	outcome := &ExtractOutcome{Report: report}

	if p.advisor.IsEnabled() {
		advice, err := p.advisor.GenerateAdvice(ctx, *report)
		if err != nil {
			p.log.Warn().Err(err).Msg("LLM advice generation failed")
		} else {
			outcome.Advice = advice
		}
	}

	return outcome, nil
}

// cacheDir resolves the disk cache directory, defaulting under the user's
// home.
func cacheDir(cfg *model.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".footprint-cache"
	}
	return filepath.Join(home, ".footprint", "cache")
}
