package normalize

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"footprint/internal/model"
)

// Criteria selects a subset of normalized results. Dimensions are ANDed
// together; an empty dimension imposes no restriction.
type Criteria struct {
	Platforms  []string
	RiskLevels []model.RiskLevel
	Domains    []string
}

// Empty reports whether the criteria restrict nothing.
func (c Criteria) Empty() bool {
	return len(c.Platforms) == 0 && len(c.RiskLevels) == 0 && len(c.Domains) == 0
}

// Filter returns the results matching the criteria. It is pure: the input
// slice is never mutated, and unconstrained criteria return it unchanged.
func Filter(results []model.NormalizedResult, c Criteria) []model.NormalizedResult {
	if c.Empty() {
		return results
	}

	out := make([]model.NormalizedResult, 0, len(results))
	for _, r := range results {
		if !matchesPlatform(r, c.Platforms) {
			continue
		}
		if !matchesRisk(r, c.RiskLevels) {
			continue
		}
		if !matchesDomain(r, c.Domains) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ResultDomain extracts the registrable domain from a result's source URL,
// falling back to the bare host and finally the raw string when parsing
// fails.
func ResultDomain(r model.NormalizedResult) string {
	parsed, err := url.Parse(r.SourceURL)
	if err != nil || parsed.Hostname() == "" {
		return r.SourceURL
	}
	host := strings.ToLower(parsed.Hostname())
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld
	}
	return host
}

func matchesPlatform(r model.NormalizedResult, platforms []string) bool {
	if len(platforms) == 0 {
		return true
	}
	got := r.Platform()
	for _, p := range platforms {
		if strings.EqualFold(p, got) {
			return true
		}
	}
	return false
}

func matchesRisk(r model.NormalizedResult, levels []model.RiskLevel) bool {
	if len(levels) == 0 {
		return true
	}
	for _, l := range levels {
		if l == r.RiskLevel {
			return true
		}
	}
	return false
}

func matchesDomain(r model.NormalizedResult, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	got := ResultDomain(r)
	for _, d := range domains {
		if strings.EqualFold(d, got) {
			return true
		}
	}
	return false
}
