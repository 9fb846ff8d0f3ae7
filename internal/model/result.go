package model

import (
	"strings"
	"time"
)

// RiskLevel is the coarse severity tag assigned to a normalized result.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Valid reports whether the level is one of the four defined values.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// NormalizedResult is the canonical, display-ready representation of one
// discovered item. The ID encodes provenance (webpage vs. social, platform,
// ordinal index) so consumers can re-derive the category without inspecting
// content again.
type NormalizedResult struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	SourceURL   string    `json:"sourceUrl"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	DataTypes   []string  `json:"dataTypes"`
	Confidence  float64   `json:"confidence"`
	Snippet     string    `json:"snippet,omitempty"`
	Reasoning   string    `json:"reasoning,omitempty"`
	FoundAt     time.Time `json:"foundAt"`
}

// IsSocial reports whether the result came from a social source, either a
// platform listing or a webpage hit on a known social domain.
func (r NormalizedResult) IsSocial() bool {
	return strings.HasPrefix(r.ID, "social-")
}

// Platform derives the provenance platform from the result ID. Webpage hits,
// including those on social domains, report "web"; platform listings report
// the platform name (e.g. "linkedin").
func (r NormalizedResult) Platform() string {
	if strings.HasPrefix(r.ID, "webpage-") || strings.HasPrefix(r.ID, "social-webpage-") {
		return "web"
	}
	rest := strings.TrimPrefix(r.ID, "social-")
	if idx := strings.LastIndex(rest, "-"); idx > 0 {
		return rest[:idx]
	}
	return "web"
}

// ResultSet is the immutable output of one normalization pass. Consumers
// filter and sort views over it but never mutate individual results.
type ResultSet struct {
	Query     string             `json:"query"`
	Timestamp time.Time          `json:"timestamp"`
	Results   []NormalizedResult `json:"results"`
}

// CountByRisk tallies results per risk level.
func (s *ResultSet) CountByRisk() map[RiskLevel]int {
	counts := make(map[RiskLevel]int, 4)
	for _, r := range s.Results {
		counts[r.RiskLevel]++
	}
	return counts
}
