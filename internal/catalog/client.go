// Package catalog is the read-only client for the FakeStore-compatible
// product catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"shopassist/internal/config"
	"shopassist/internal/model"
)

// ErrCatalogUnavailable wraps every transport or status failure.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Client handles communication with the catalog API. Requests are never
// retried.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	timeout     time.Duration
	rateLimiter *rate.Limiter
	cache       Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewClient creates a new catalog client. cache may be nil.
func NewClient(cfg config.CatalogConfig, cache Cache, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     cfg.BaseURL,
		timeout:     cfg.Timeout,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cache:       cache,
		cacheTTL:    cfg.CacheTTL,
		logger:      logger,
	}
}

// ListProducts returns every product, or only those in category when it is
// set. Filtering happens server-side.
func (c *Client) ListProducts(ctx context.Context, category model.Category) ([]model.CatalogItem, error) {
	path := "/products"
	if name := category.CatalogName(); name != "" {
		path = "/products/category/" + url.PathEscape(name)
	}

	body, cached, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var items []model.CatalogItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrCatalogUnavailable, path, err)
	}

	if c.cache != nil && !cached {
		if err := c.cache.Set(ctx, path, body, c.cacheTTL); err != nil {
			c.logger.Warn("catalog cache write failed", zap.String("path", path), zap.Error(err))
		}
	}

	c.logger.Debug("catalog products fetched",
		zap.String("path", path),
		zap.Int("count", len(items)),
		zap.Bool("cached", cached),
	)
	return items, nil
}

// get returns the raw body for path, consulting the cache first. The
// reported flag is true when the body came from the cache. Waiting on the
// rate limiter counts against the request timeout.
func (c *Client) get(ctx context.Context, path string) ([]byte, bool, error) {
	if c.cache != nil {
		body, err := c.cache.Get(ctx, path)
		if err == nil {
			return body, true, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("catalog cache read failed", zap.String("path", path), zap.Error(err))
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("%w: rate limited: %v", ErrCatalogUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "shopassist/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to read response: %v", ErrCatalogUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}
	return body, false, nil
}
