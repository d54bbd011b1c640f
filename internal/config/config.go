// ABOUTME: Centralized configuration for the scholarchat assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the assistant
type Config struct {
	// Completion service settings
	BaseURL     string
	APIKey      string
	ChatModel   string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	// Content settings
	ContentRoot     string
	PersonalContext string
	PapersFeed      string
	PaperTextDir    string
	PaperTextExt    string
	OwnerName       string
	AutoRoute       bool
	WatchFeed       bool

	// Serving settings
	ListenAddr string

	// Logging settings
	LogLevel  string
	LogFile   string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:         getEnv("COMPLETION_BASE_URL", "http://localhost:8000/v1"),
		APIKey:          getEnv("COMPLETION_API_KEY", os.Getenv("OPENAI_API_KEY")),
		ChatModel:       getEnv("COMPLETION_MODEL", "gpt-oss-20B"),
		Temperature:     getEnvFloat("COMPLETION_TEMPERATURE", 0.7),
		MaxTokens:       getEnvInt("COMPLETION_MAX_TOKENS", 512),
		Timeout:         getEnvDuration("COMPLETION_TIMEOUT", 60*time.Second),
		MaxRetries:      getEnvInt("COMPLETION_MAX_RETRIES", 0),
		RetryDelay:      getEnvDuration("COMPLETION_RETRY_DELAY", 2*time.Second),
		ContentRoot:     getEnv("CONTENT_ROOT", "."),
		PersonalContext: getEnv("PERSONAL_CONTEXT", "context.txt"),
		PapersFeed:      getEnv("PAPERS_FEED", "papersV2.json"),
		PaperTextDir:    getEnv("PAPER_TEXT_DIR", "paper_text"),
		PaperTextExt:    getEnv("PAPER_TEXT_EXT", ".txt"),
		OwnerName:       getEnv("ASSISTANT_OWNER", "Md Shahidul Salim"),
		AutoRoute:       getEnvBool("AUTO_ROUTE", true),
		WatchFeed:       getEnvBool("WATCH_FEED", false),
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("COMPLETION_BASE_URL must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("COMPLETION_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("COMPLETION_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("COMPLETION_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("COMPLETION_RETRY_DELAY must not be negative, got %s", c.RetryDelay)
	}
	if c.LogFormat != "" && c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
