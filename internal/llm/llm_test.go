package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"footprint/internal/model"
)

func sampleReport() model.ExposureReport {
	return model.ExposureReport{
		SearchName: "jane doe",
		RiskScore:  11,
		RiskLevel:  model.RiskHigh,
		Categories: []model.PIICategory{
			{Name: "Email Addresses", Count: 3},
			{Name: "Phone Numbers", Count: 1},
		},
		Recommendations: []string{"Enable two-factor authentication"},
		Summary: model.ExtractionSummary{
			PagesProcessed:    4,
			ProfilesProcessed: 2,
			PIIItemsFound:     4,
		},
	}
}

func TestBuildPrompt_IncludesCategories(t *testing.T) {
	prompt := BuildPrompt(sampleReport())

	if !strings.Contains(prompt, "jane doe") {
		t.Error("Expected prompt to include search name")
	}
	if !strings.Contains(prompt, "11/15 (high)") {
		t.Errorf("Expected risk score line, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Email Addresses: 3 found") {
		t.Error("Expected category counts in prompt")
	}
	if !strings.Contains(prompt, "Enable two-factor authentication") {
		t.Error("Expected baseline recommendations in prompt")
	}
}

func TestBuildPrompt_EmptyCategories(t *testing.T) {
	report := model.ExposureReport{SearchName: "jane", RiskLevel: model.RiskLow}
	prompt := BuildPrompt(report)

	if !strings.Contains(prompt, "(none)") {
		t.Error("Expected (none) marker for empty categories")
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error for empty provider, got %v", err)
	}
	if provider != nil {
		t.Error("Expected nil provider when disabled")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "bard"})
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestNewProvider_OpenAIRequiresKey(t *testing.T) {
	_, err := NewProvider(Config{Provider: "openai"})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
}

func TestAdvisor_DisabledIsSafe(t *testing.T) {
	advisor, err := NewAdvisor(Config{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if advisor.IsEnabled() {
		t.Error("Expected disabled advisor")
	}

	resp, err := advisor.GenerateAdvice(context.Background(), sampleReport())
	if err != nil || resp != nil {
		t.Errorf("Expected nil, nil from disabled advisor, got %v, %v", resp, err)
	}

	var nilAdvisor *Advisor
	if nilAdvisor.IsEnabled() {
		t.Error("Expected nil advisor to report disabled")
	}
}

func TestOllamaAdvise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"model": "llama3.1:8b",
			"response": "1. Remove your email from public directories.",
			"done": true,
			"prompt_eval_count": 120,
			"eval_count": 30
		}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1:8b"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	resp, err := provider.Advise(context.Background(), AdviseRequest{Report: sampleReport()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(resp.Advice, "public directories") {
		t.Errorf("Unexpected advice: %q", resp.Advice)
	}
	if resp.TokensUsed != 150 {
		t.Errorf("Expected 150 tokens, got %d", resp.TokensUsed)
	}
}

func TestOllamaAdvise_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = provider.Advise(context.Background(), AdviseRequest{Report: sampleReport()})
	if err == nil {
		t.Fatal("Expected error when model unspecified")
	}
}

func TestOllamaAdvise_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = provider.Advise(context.Background(), AdviseRequest{Report: sampleReport()})
	if err == nil {
		t.Fatal("Expected error for API failure")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected backend error message, got %v", err)
	}
}

func TestAnthropicAdvise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"content": [{"type": "text", "text": "1. Request removal from people-search sites."}],
			"model": "claude-3-5-haiku-20241022",
			"usage": {"input_tokens": 100, "output_tokens": 20}
		}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	resp, err := provider.Advise(context.Background(), AdviseRequest{Report: sampleReport()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(resp.Advice, "people-search") {
		t.Errorf("Unexpected advice: %q", resp.Advice)
	}
	if resp.TokensUsed != 120 {
		t.Errorf("Expected 120 tokens, got %d", resp.TokensUsed)
	}
}
