package llm

import (
	"context"
	"fmt"
	"strings"

	"footprint/internal/model"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Advise generates remediation advice for an exposure report
	Advise(ctx context.Context, req AdviseRequest) (*AdviseResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AdviseRequest contains the input for advice generation.
type AdviseRequest struct {
	// Report is the exposure report to generate advice for
	Report model.ExposureReport

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AdviseResponse contains the generated advice. The advice is presentational
// only and never feeds back into the report's score or risk level.
type AdviseResponse struct {
	// Advice is the generated remediation guidance
	Advice string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 800,
	}
}

const adviceSystemPrompt = "You are a privacy advisor helping a person reduce " +
	"their online exposure. Be practical and specific. Never claim certainty " +
	"about who the data belongs to."

// BuildPrompt constructs the default advice prompt from an exposure report.
func BuildPrompt(report model.ExposureReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, `The following is an automated personal-data exposure report. Suggest concrete steps the person can take to reduce their exposure.

RULES:
1. Base advice only on the categories listed below. Do not invent findings.
2. Prioritize the highest-count categories first.
3. Keep advice actionable: name the kind of service or setting to change.
4. Never speculate about identity; the report may contain data about other people with the same name.

Report:
- Search name: %s
- Risk score: %d/15 (%s)
- Pages processed: %d
- Profiles processed: %d
- PII items found: %d

Exposed categories:
`, report.SearchName, report.RiskScore, report.RiskLevel,
		report.Summary.PagesProcessed, report.Summary.ProfilesProcessed,
		report.Summary.PIIItemsFound)

	if len(report.Categories) == 0 {
		b.WriteString("(none)\n")
	}
	for _, cat := range report.Categories {
		fmt.Fprintf(&b, "- %s: %d found\n", cat.Name, cat.Count)
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("\nBaseline recommendations already shown to the user:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	b.WriteString("\nProvide 3-5 short, numbered remediation steps beyond the baseline recommendations.")

	return b.String()
}
