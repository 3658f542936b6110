package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/seenimoa/trinopricer/internal/config"
	"github.com/seenimoa/trinopricer/internal/infra"
	"github.com/seenimoa/trinopricer/pkg/models"
	"github.com/seenimoa/trinopricer/pkg/utils"
)

const (
	nseBaseURL = "https://www.nseindia.com"
	nseAPIBase = "https://www.nseindia.com/api"
)

// NSE fetches option chains from NSE India. The client keeps a cookie
// session alive against the NSE homepage, rate-limits and caches its
// requests, and retries transient failures with a fixed backoff.
type NSE struct {
	cache        *infra.Cache
	limiter      *infra.RateLimiter
	client       *http.Client
	cookieExpiry time.Time
	cookieTTL    time.Duration
	retries      int
	retryWait    time.Duration
}

// NewNSE creates an NSE chain provider from config.
func NewNSE(cfg config.NSEConfig) *NSE {
	jar, _ := cookiejar.New(nil)
	return &NSE{
		cache:   infra.NewCache(time.Duration(cfg.CacheTTLSec) * time.Second),
		limiter: infra.NewRateLimiter(cfg.RatePerSec, time.Second),
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
			Jar:     jar,
		},
		cookieTTL: time.Duration(cfg.CookieTTLSec) * time.Second,
		retries:   cfg.Retries,
		retryWait: time.Duration(cfg.RetryWaitSec) * time.Second,
	}
}

// Name returns the data source name.
func (n *NSE) Name() string { return "NSE India" }

// nseChainResponse mirrors the option-chain endpoint envelope. The
// records decode directly into models.ChainRecord.
type nseChainResponse struct {
	Records struct {
		ExpiryDates     []string             `json:"expiryDates"`
		StrikePrices    []float64            `json:"strikePrices"`
		Data            []models.ChainRecord `json:"data"`
		Timestamp       string               `json:"timestamp"`
		UnderlyingValue float64              `json:"underlyingValue"`
	} `json:"records"`
}

// FetchChain returns all chain records for the underlying. Indices and
// equities use different endpoints; the symbol decides which.
func (n *NSE) FetchChain(ctx context.Context, symbol string) ([]models.ChainRecord, error) {
	symbol = utils.NormalizeSymbol(symbol)

	cacheKey := "nse:chain:" + symbol
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.ChainRecord), nil
	}

	url := fmt.Sprintf("%s/option-chain-equities?symbol=%s", nseAPIBase, symbol)
	if utils.IsIndex(symbol) {
		url = fmt.Sprintf("%s/option-chain-indices?symbol=%s", nseAPIBase, symbol)
	}

	var lastErr error
	for attempt := 0; attempt <= n.retries; attempt++ {
		if attempt > 0 {
			log.WithFields(log.Fields{"symbol": symbol, "attempt": attempt}).
				Warnf("retrying NSE option chain fetch: %v", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(n.retryWait):
			}
		}

		records, err := n.fetchOnce(ctx, symbol, url)
		if err == nil {
			n.cache.Set(cacheKey, records)
			return records, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("NSE option chain %s after %d retries: %w", symbol, n.retries, lastErr)
}

func (n *NSE) fetchOnce(ctx context.Context, symbol, url string) ([]models.ChainRecord, error) {
	if err := n.ensureCookies(ctx); err != nil {
		return nil, fmt.Errorf("NSE cookie refresh: %w", err)
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	data, err := n.nseGet(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp nseChainResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse NSE option chain: %w", err)
	}
	if len(resp.Records.Data) == 0 {
		return nil, ErrSymbolNotFound
	}
	return resp.Records.Data, nil
}

// ensureCookies refreshes the NSE session cookies by visiting the
// homepage when the previous batch has aged out.
func (n *NSE) ensureCookies(ctx context.Context) error {
	if time.Now().Before(n.cookieExpiry) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nseBaseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch NSE homepage for cookies: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain body

	n.cookieExpiry = time.Now().Add(n.cookieTTL)
	return nil
}

// nseGet performs a GET with the browser-like headers NSE expects.
func (n *NSE) nseGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", nseBaseURL)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return nil, ErrRateLimited
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return io.ReadAll(resp.Body)
}
