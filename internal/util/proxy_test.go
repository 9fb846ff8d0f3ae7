package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func requestFor(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, rawURL, nil)
	return req
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	proxyFunc := NewProxyFunc("http://proxy.internal:3128", "http://sproxy.internal:3128", "")

	u, err := proxyFunc(requestFor(t, "https://example.com/page"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u == nil || u.Host != "sproxy.internal:3128" {
		t.Errorf("Expected https proxy, got %v", u)
	}

	u, err = proxyFunc(requestFor(t, "http://example.com/page"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u == nil || u.Host != "proxy.internal:3128" {
		t.Errorf("Expected http proxy, got %v", u)
	}
}

func TestNewProxyFunc_HTTPProxyCoversHTTPS(t *testing.T) {
	proxyFunc := NewProxyFunc("http://proxy.internal:3128", "", "")

	u, err := proxyFunc(requestFor(t, "https://example.com/page"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u == nil || u.Host != "proxy.internal:3128" {
		t.Errorf("Expected http proxy fallback for https, got %v", u)
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	proxyFunc := NewProxyFunc("http://proxy.internal:3128", "", "internal.example.com, .corp.example.org")

	tests := []struct {
		url      string
		bypassed bool
	}{
		{"http://internal.example.com/x", true},
		{"http://api.internal.example.com/x", true},
		{"http://host.corp.example.org/x", true},
		{"http://example.com/x", false},
		{"http://notinternal.example.com.evil.com/x", false},
	}

	for _, tt := range tests {
		u, err := proxyFunc(requestFor(t, tt.url))
		if err != nil {
			t.Fatalf("Expected no error for %s, got %v", tt.url, err)
		}
		if tt.bypassed && u != nil {
			t.Errorf("Expected %s to bypass the proxy, got %v", tt.url, u)
		}
		if !tt.bypassed && u == nil {
			t.Errorf("Expected %s to use the proxy", tt.url)
		}
	}
}
