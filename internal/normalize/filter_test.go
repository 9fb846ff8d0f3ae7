package normalize

import (
	"reflect"
	"testing"

	"footprint/internal/model"
)

func sampleResults() []model.NormalizedResult {
	return []model.NormalizedResult{
		{ID: "webpage-0", SourceURL: "https://www.example.com/about", RiskLevel: model.RiskLow},
		{ID: "social-webpage-1", SourceURL: "https://linkedin.com/in/jane", RiskLevel: model.RiskCritical},
		{ID: "social-twitter-2", SourceURL: "https://twitter.com/jane", RiskLevel: model.RiskMedium},
		{ID: "social-facebook-3", SourceURL: "https://facebook.com", RiskLevel: model.RiskHigh},
	}
}

func TestFilter_IdentityWhenUnconstrained(t *testing.T) {
	results := sampleResults()
	got := Filter(results, Criteria{})
	if !reflect.DeepEqual(got, results) {
		t.Errorf("Expected unconstrained filter to be identity, got %v", got)
	}
}

func TestFilter_ByPlatform(t *testing.T) {
	got := Filter(sampleResults(), Criteria{Platforms: []string{"twitter"}})
	if len(got) != 1 || got[0].ID != "social-twitter-2" {
		t.Errorf("Expected only the twitter result, got %v", got)
	}

	// Webpage hits (including social-webpage) report the "web" platform.
	got = Filter(sampleResults(), Criteria{Platforms: []string{"web"}})
	if len(got) != 2 {
		t.Errorf("Expected 2 web results, got %d", len(got))
	}
}

func TestFilter_ByRiskLevel(t *testing.T) {
	got := Filter(sampleResults(), Criteria{
		RiskLevels: []model.RiskLevel{model.RiskHigh, model.RiskCritical},
	})
	if len(got) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(got))
	}
	for _, r := range got {
		if r.RiskLevel != model.RiskHigh && r.RiskLevel != model.RiskCritical {
			t.Errorf("Unexpected risk level %s in filtered output", r.RiskLevel)
		}
	}
}

func TestFilter_ByDomain(t *testing.T) {
	got := Filter(sampleResults(), Criteria{Domains: []string{"example.com"}})
	if len(got) != 1 || got[0].ID != "webpage-0" {
		t.Errorf("Expected only the example.com result, got %v", got)
	}
}

func TestFilter_CriteriaAreANDed(t *testing.T) {
	// Platform matches two results but the risk level narrows it to one.
	got := Filter(sampleResults(), Criteria{
		Platforms:  []string{"web"},
		RiskLevels: []model.RiskLevel{model.RiskCritical},
	})
	if len(got) != 1 || got[0].ID != "social-webpage-1" {
		t.Errorf("Expected single ANDed match, got %v", got)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	results := sampleResults()
	want := sampleResults()

	Filter(results, Criteria{RiskLevels: []model.RiskLevel{model.RiskLow}})
	if !reflect.DeepEqual(results, want) {
		t.Error("Filter mutated its input")
	}
}

func TestResultDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/about", "example.com"},
		{"https://sub.blog.example.co.uk/post", "example.co.uk"},
		{"https://facebook.com", "facebook.com"},
		{"not a url at all", "not a url at all"},
		{"", ""},
	}

	for _, tt := range tests {
		r := model.NormalizedResult{SourceURL: tt.url}
		if got := ResultDomain(r); got != tt.want {
			t.Errorf("ResultDomain(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
