package model

import "time"

// Config is the complete footprint configuration.
type Config struct {
	Backend     BackendConfig     `yaml:"backend"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Verify      VerifyConfig      `yaml:"verify"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Output      OutputConfig      `yaml:"output"`
	History     HistoryConfig     `yaml:"history"`
	LLM         LLMConfig         `yaml:"llm"`
}

// BackendConfig locates the exposure analysis backend. The base URL is the
// one externally configurable parameter of the search path.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

// HTTPConfig controls the backend HTTP client.
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"` // 0 waits indefinitely
	UserAgent  string        `yaml:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy"`
}

// CacheConfig controls the layered search-response cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// VerifyConfig controls optional source-URL verification.
type VerifyConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	Workers       int           `yaml:"workers"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig bounds outbound requests during verification and batch runs.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// HistoryConfig controls the local scan history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LLMConfig configures the optional advice summarizer. API keys come from
// the environment, never from the config file.
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// DefaultConfig returns the built-in defaults. Flags, environment variables
// and the config file override these in that order of priority.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
		},
		HTTP: HTTPConfig{
			Timeout:   0, // callers may wait indefinitely for a slow backend
			UserAgent: "footprint/0.1 (+https://github.com/footprint-scan/footprint)",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 5 * time.Minute,
			DiskTTL:   1 * time.Hour,
		},
		Verify: VerifyConfig{
			Timeout:       10 * time.Second,
			Workers:       10,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Output: OutputConfig{
			Verbose: false,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "", // resolved to ~/.footprint/history.db when empty
		},
		LLM: LLMConfig{
			Provider:  "", // disabled by default
			Model:     "",
			Timeout:   30,
			MaxTokens: 800,
		},
	}
}
