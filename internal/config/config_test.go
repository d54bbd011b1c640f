// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8000/v1" {
		t.Errorf("BaseURL = %s, want http://localhost:8000/v1", cfg.BaseURL)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %s, want empty", cfg.APIKey)
	}
	if cfg.ChatModel != "gpt-oss-20B" {
		t.Errorf("ChatModel = %s, want gpt-oss-20B", cfg.ChatModel)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %f, want 0.7", cfg.Temperature)
	}
	if cfg.MaxTokens != 512 {
		t.Errorf("MaxTokens = %d, want 512", cfg.MaxTokens)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.ContentRoot != "." {
		t.Errorf("ContentRoot = %s, want .", cfg.ContentRoot)
	}
	if cfg.PersonalContext != "context.txt" {
		t.Errorf("PersonalContext = %s, want context.txt", cfg.PersonalContext)
	}
	if cfg.PapersFeed != "papersV2.json" {
		t.Errorf("PapersFeed = %s, want papersV2.json", cfg.PapersFeed)
	}
	if cfg.PaperTextDir != "paper_text" || cfg.PaperTextExt != ".txt" {
		t.Errorf("paper text fallback = %s/*%s, want paper_text/*.txt", cfg.PaperTextDir, cfg.PaperTextExt)
	}
	if cfg.OwnerName != "Md Shahidul Salim" {
		t.Errorf("OwnerName = %s, want Md Shahidul Salim", cfg.OwnerName)
	}
	if !cfg.AutoRoute {
		t.Error("AutoRoute = false, want true")
	}
	if cfg.WatchFeed {
		t.Error("WatchFeed = true, want false")
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %s, want :8080", cfg.ListenAddr)
	}
	if cfg.LogLevel != "info" || cfg.LogFile != "" || cfg.LogFormat != "console" {
		t.Errorf("logging = %s/%q/%s, want info/\"\"/console", cfg.LogLevel, cfg.LogFile, cfg.LogFormat)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	// Set custom environment variables
	os.Clearenv()
	os.Setenv("COMPLETION_BASE_URL", "https://llm.example.org/v1")
	os.Setenv("COMPLETION_API_KEY", "test-key")
	os.Setenv("COMPLETION_MODEL", "llama-3-8b")
	os.Setenv("COMPLETION_TEMPERATURE", "0.2")
	os.Setenv("COMPLETION_MAX_TOKENS", "1024")
	os.Setenv("COMPLETION_TIMEOUT", "15s")
	os.Setenv("COMPLETION_MAX_RETRIES", "2")
	os.Setenv("COMPLETION_RETRY_DELAY", "500ms")
	os.Setenv("CONTENT_ROOT", "https://example.org/site")
	os.Setenv("PERSONAL_CONTEXT", "about.txt")
	os.Setenv("PAPERS_FEED", "papers.yaml")
	os.Setenv("PAPER_TEXT_DIR", "texts")
	os.Setenv("PAPER_TEXT_EXT", ".md")
	os.Setenv("ASSISTANT_OWNER", "Grace Hopper")
	os.Setenv("AUTO_ROUTE", "false")
	os.Setenv("WATCH_FEED", "1")
	os.Setenv("LISTEN_ADDR", "127.0.0.1:9090")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FILE", "/tmp/scholarchat.log")
	os.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "https://llm.example.org/v1" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %s, want test-key", cfg.APIKey)
	}
	if cfg.ChatModel != "llama-3-8b" {
		t.Errorf("ChatModel = %s, want llama-3-8b", cfg.ChatModel)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("Temperature = %f, want 0.2", cfg.Temperature)
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", cfg.MaxTokens)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Timeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.RetryDelay)
	}
	if cfg.ContentRoot != "https://example.org/site" {
		t.Errorf("ContentRoot = %s", cfg.ContentRoot)
	}
	if cfg.PersonalContext != "about.txt" || cfg.PapersFeed != "papers.yaml" {
		t.Errorf("locators = %s, %s", cfg.PersonalContext, cfg.PapersFeed)
	}
	if cfg.PaperTextDir != "texts" || cfg.PaperTextExt != ".md" {
		t.Errorf("paper text fallback = %s/*%s", cfg.PaperTextDir, cfg.PaperTextExt)
	}
	if cfg.OwnerName != "Grace Hopper" {
		t.Errorf("OwnerName = %s, want Grace Hopper", cfg.OwnerName)
	}
	if cfg.AutoRoute {
		t.Error("AutoRoute = true, want false")
	}
	if !cfg.WatchFeed {
		t.Error("WatchFeed = false, want true")
	}
	if cfg.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("ListenAddr = %s", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" || cfg.LogFile != "/tmp/scholarchat.log" || cfg.LogFormat != "json" {
		t.Errorf("logging = %s/%s/%s", cfg.LogLevel, cfg.LogFile, cfg.LogFormat)
	}
}

func TestLoad_OpenAIKeyFallback(t *testing.T) {
	os.Clearenv()
	os.Setenv("OPENAI_API_KEY", "sk-fallback")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.APIKey != "sk-fallback" {
		t.Errorf("APIKey = %s, want sk-fallback", cfg.APIKey)
	}

	os.Setenv("COMPLETION_API_KEY", "sk-primary")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.APIKey != "sk-primary" {
		t.Errorf("APIKey = %s, want sk-primary", cfg.APIKey)
	}
}

func TestLoad_InvalidValueFails(t *testing.T) {
	os.Clearenv()
	os.Setenv("COMPLETION_TEMPERATURE", "3.5")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for temperature > 2")
	}
}

func validConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:8000/v1",
		Temperature: 0.7,
		MaxTokens:   512,
		MaxRetries:  0,
		LogFormat:   "console",
	}
}

func TestValidate_InvalidTemperature(t *testing.T) {
	cfg := validConfig()
	cfg.Temperature = 2.5
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for temperature > 2")
	}

	cfg.Temperature = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for temperature < 0")
	}
}

func TestValidate_InvalidMaxTokens(t *testing.T) {
	cfg := validConfig()
	cfg.MaxTokens = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for MaxTokens = 0")
	}
}

func TestValidate_InvalidMaxRetries(t *testing.T) {
	cfg := validConfig()
	cfg.MaxRetries = 15

	err := cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for MaxRetries > 10")
	}

	cfg.MaxRetries = -1
	err = cfg.Validate()
	if err == nil {
		t.Error("Validate() should fail for MaxRetries < 0")
	}
}

func TestValidate_RetryDelay(t *testing.T) {
	cfg := validConfig()
	cfg.MaxRetries = 2
	cfg.RetryDelay = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should accept a zero retry delay, got %v", err)
	}

	cfg.RetryDelay = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for a negative RetryDelay")
	}
}

func TestValidate_BaseURLAndLogFormat(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed on a valid config: %v", err)
	}

	cfg.BaseURL = " "
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for empty base URL")
	}

	cfg = validConfig()
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for unknown log format")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration_InvalidUsesDefault(t *testing.T) {
	os.Clearenv()
	os.Setenv("TEST_DURATION", "soon")
	if got := getEnvDuration("TEST_DURATION", 3*time.Second); got != 3*time.Second {
		t.Errorf("getEnvDuration() = %v, want 3s", got)
	}
}
