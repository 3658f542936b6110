// Package datasource fetches option-chain records from market-data
// providers. The pricing core consumes providers through the
// ChainProvider interface; the concrete NSE implementation handles
// cookies, rate limiting, retries, and caching.
package datasource

import (
	"context"
	"fmt"

	"github.com/seenimoa/trinopricer/pkg/models"
)

// ChainProvider yields the option-chain records for a symbol as an
// already-materialized, finite slice. Implementations own all transport
// concerns (retry, backoff, sessions); callers only see records or an
// error.
type ChainProvider interface {
	// Name returns the human-readable name of this provider.
	Name() string

	// FetchChain returns all chain records for the given underlying.
	FetchChain(ctx context.Context, symbol string) ([]models.ChainRecord, error)
}

// --- Sentinel errors ---

// ErrRateLimited is returned when the provider rate-limits the request.
var ErrRateLimited = fmt.Errorf("rate limited by data source")

// ErrSymbolNotFound is returned when the underlying cannot be resolved.
var ErrSymbolNotFound = fmt.Errorf("symbol not found")

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
