// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the public Twelve Data REST endpoint.
	DefaultBaseURL = "https://api.twelvedata.com"
	// DefaultRequestsPerMinute matches the free plan quota.
	DefaultRequestsPerMinute = 8
)

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey  string        // API key for authentication
	BaseURL           string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout           time.Duration // HTTP request timeout
	RequestsPerMinute int           // Shared request quota; 0 disables limiting
}

// LoadConfig loads Twelve Data configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		TwelveDataAPIKey:  os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL:           os.Getenv("TWELVE_DATA_BASE_URL"),
		Timeout:           10 * time.Second,
		RequestsPerMinute: DefaultRequestsPerMinute,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if v, err := strconv.Atoi(os.Getenv("TWELVE_DATA_RPM")); err == nil && v >= 0 {
		cfg.RequestsPerMinute = v
	}
	return cfg
}
