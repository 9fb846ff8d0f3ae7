package llm

import (
	"context"
	"fmt"

	"footprint/internal/model"
)

// Advisor wraps a Provider and generates advice for exposure reports.
// A nil or disabled advisor is safe to call through IsEnabled.
type Advisor struct {
	provider Provider
	config   Config
}

// NewAdvisor creates an advisor from configuration. Returns an error when
// the configured provider cannot be constructed.
func NewAdvisor(config Config) (*Advisor, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return &Advisor{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (a *Advisor) IsEnabled() bool {
	return a != nil && a.provider != nil
}

// GenerateAdvice produces remediation advice for a report. The result never
// feeds back into the report's score.
func (a *Advisor) GenerateAdvice(ctx context.Context, report model.ExposureReport) (*AdviseResponse, error) {
	if !a.IsEnabled() {
		return nil, nil
	}

	return a.provider.Advise(ctx, AdviseRequest{
		Report:    report,
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
	})
}
