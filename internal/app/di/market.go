// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"watchlist_backend/internal/platform/cache"
	"watchlist_backend/internal/platform/externalapi/finnhub"
	infrahttp "watchlist_backend/internal/platform/http"
)

// NewMarket creates a fully configured FinnhubMarket with HTTP client and
// response cache. Returns an error when the API key is missing: market data
// misconfiguration is a startup failure, not a per-request one.
func NewMarket(store *cache.Store) (*finnhub.FinnhubMarket, error) {
	cfg := finnhub.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return finnhub.NewFinnhubMarket(cfg, httpClient, store), nil
}

// NewCacheStore creates the Finnhub response cache. If Redis is unavailable
// (rdb is nil), the returned store is a no-op and every lookup goes upstream.
func NewCacheStore(rdb *redis.Client) *cache.Store {
	return cache.NewStore(rdb, "finnhub")
}
