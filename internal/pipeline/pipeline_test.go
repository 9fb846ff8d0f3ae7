package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"footprint/internal/model"
	"footprint/internal/normalize"
)

func testConfig(baseURL string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.Backend.BaseURL = baseURL
	cfg.Cache.Enabled = false
	return cfg
}

func backendHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"query": "jane doe",
			"totalResults": 2,
			"totalSocialResults": 1,
			"webpages": [
				{"title": "Jane Doe - Staff Directory", "url": "https://example.edu/staff/jane",
				 "domain": "example.edu", "description": "Faculty directory entry",
				 "relevanceScore": 0.85},
				{"title": "Jane Doe", "url": "https://news.example.com/article",
				 "domain": "news.example.com", "relevanceScore": 0.4}
			],
			"socialMedia": {
				"linkedin": [{"name": "Jane Doe", "url": "https://linkedin.com/in/janedoe",
				              "bio": "Engineer"}]
			}
		}`))
	})
	mux.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"searchName": "jane doe",
			"riskScore": 9,
			"riskLevel": "medium",
			"categories": [{"name": "Email Addresses", "count": 1}],
			"recommendations": ["Request removal from the staff directory"],
			"extractionSummary": {"pagesProcessed": 2, "profilesProcessed": 1, "piiItemsFound": 1}
		}`))
	})
	return mux
}

func TestScan_EndToEnd(t *testing.T) {
	server := httptest.NewServer(backendHandler(t))
	defer server.Close()

	p := New(testConfig(server.URL), nil, zerolog.Nop())
	outcome, err := p.Scan(context.Background(), "jane doe", ScanOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	set := outcome.Set
	if set.Query != "jane doe" {
		t.Errorf("Expected query jane doe, got %q", set.Query)
	}
	if len(set.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(set.Results))
	}
	if set.Results[0].ID != "webpage-0" || set.Results[2].ID != "social-linkedin-0" {
		t.Errorf("Unexpected ids: %s, %s", set.Results[0].ID, set.Results[2].ID)
	}
	if set.Results[0].RiskLevel != model.RiskCritical {
		t.Errorf("Expected critical for relevance 0.85, got %s", set.Results[0].RiskLevel)
	}
	if outcome.Verification != nil {
		t.Error("Expected no verification without the option")
	}
}

func TestScan_AppliesFilter(t *testing.T) {
	server := httptest.NewServer(backendHandler(t))
	defer server.Close()

	p := New(testConfig(server.URL), nil, zerolog.Nop())
	outcome, err := p.Scan(context.Background(), "jane doe", ScanOptions{
		Criteria: normalize.Criteria{Platforms: []string{"linkedin"}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(outcome.Set.Results) != 1 {
		t.Fatalf("Expected 1 linkedin result, got %d", len(outcome.Set.Results))
	}
	if outcome.Set.Results[0].ID != "social-linkedin-0" {
		t.Errorf("Unexpected result: %s", outcome.Set.Results[0].ID)
	}
}

func TestScan_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "search backend down"}`))
	}))
	defer server.Close()

	p := New(testConfig(server.URL), nil, zerolog.Nop())
	_, err := p.Scan(context.Background(), "jane", ScanOptions{})
	if err == nil {
		t.Fatal("Expected error from failing backend")
	}
	if !strings.Contains(err.Error(), "search backend down") {
		t.Errorf("Expected backend message, got %v", err)
	}
}

func TestExtract_EndToEnd(t *testing.T) {
	server := httptest.NewServer(backendHandler(t))
	defer server.Close()

	p := New(testConfig(server.URL), nil, zerolog.Nop())
	outcome, err := p.Extract(context.Background(), model.ExtractRequest{
		SearchName:   "jane doe",
		SelectedURLs: []string{"https://example.edu/staff/jane"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if outcome.Report.RiskScore != 9 || outcome.Report.RiskLevel != model.RiskMedium {
		t.Errorf("Unexpected report: %+v", outcome.Report)
	}
	if outcome.Advice != nil {
		t.Error("Expected no advice without an LLM provider")
	}
}

func TestRenderResults(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.RenderResults(&model.ResultSet{
		Query: "jane doe",
		Results: []model.NormalizedResult{
			{
				ID:          "webpage-0",
				DisplayName: "Jane Doe",
				SourceURL:   "https://example.edu/staff/jane",
				RiskLevel:   model.RiskCritical,
				DataTypes:   []string{"Academic Record", "Personal Information"},
				Confidence:  0.85,
			},
		},
	})

	out := buf.String()
	if !strings.Contains(out, `Results for "jane doe" (1 found)`) {
		t.Errorf("Missing header in output:\n%s", out)
	}
	if !strings.Contains(out, "1 critical") {
		t.Errorf("Missing risk breakdown in output:\n%s", out)
	}
	if !strings.Contains(out, "Academic Record") {
		t.Errorf("Missing data types in output:\n%s", out)
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.RenderReport(&model.ExposureReport{
		SearchName:      "jane doe",
		RiskScore:       9,
		RiskLevel:       model.RiskMedium,
		Categories:      []model.PIICategory{{Name: "Email Addresses", Count: 1, Examples: []string{"j***@example.edu"}}},
		Recommendations: []string{"Request removal from the staff directory"},
	})

	out := buf.String()
	if !strings.Contains(out, "Risk: 9/15 (medium)") {
		t.Errorf("Missing risk line in output:\n%s", out)
	}
	if !strings.Contains(out, "Email Addresses") || !strings.Contains(out, "j***@example.edu") {
		t.Errorf("Missing categories in output:\n%s", out)
	}
	if !strings.Contains(out, "Request removal") {
		t.Errorf("Missing recommendations in output:\n%s", out)
	}
}
