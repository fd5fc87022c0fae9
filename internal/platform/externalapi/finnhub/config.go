// Package finnhub provides a client for the Finnhub stock market API.
package finnhub

import (
	"errors"
	"os"
	"time"
)

// DefaultBaseURL is the production Finnhub endpoint.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// defaultPopularSymbols seeds the empty-query search dialog. The list is
// immutable configuration; override via Config.PopularSymbols if needed.
var defaultPopularSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
	"TSLA", "META", "NFLX", "JPM", "V",
	"UNH", "XOM",
}

// Config holds configuration for the Finnhub API client.
type Config struct {
	APIKey         string        // API key for authentication
	BaseURL        string        // Base URL for the API (e.g., "https://finnhub.io/api/v1")
	Timeout        time.Duration // HTTP request timeout
	PopularSymbols []string      // symbols shown for an empty search query
}

// LoadConfig loads Finnhub configuration from environment variables.
func LoadConfig() Config {
	baseURL := os.Getenv("FINNHUB_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		APIKey:         os.Getenv("FINNHUB_API_KEY"),
		BaseURL:        baseURL,
		Timeout:        10 * time.Second,
		PopularSymbols: defaultPopularSymbols,
	}
}

// Validate checks that the configuration is usable. A missing API key is a
// process-startup error: silently returning empty market data would hide the
// misconfiguration behind blank screens.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("finnhub: FINNHUB_API_KEY is not set")
	}
	return nil
}
