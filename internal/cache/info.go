// Package cache memoizes market data lookups for the lifetime of the process.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ValueScreener/internal/model"
	"ValueScreener/internal/provider"
)

// DefaultInfoCapacity is the number of tickers whose fundamentals are kept.
const DefaultInfoCapacity = 500

type infoEntry struct {
	info model.Fundamentals
	err  error // fetch failure that produced an empty info
}

// InfoCache memoizes fundamentals per ticker with LRU eviction and no expiry.
type InfoCache struct {
	client provider.Client
	logger *zap.Logger

	items  *lru.Cache[model.Ticker, infoEntry]
	flight singleflight.Group
}

// NewInfoCache creates an InfoCache. capacity <= 0 selects DefaultInfoCapacity.
func NewInfoCache(client provider.Client, capacity int, logger *zap.Logger) *InfoCache {
	if capacity <= 0 {
		capacity = DefaultInfoCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	items, _ := lru.New[model.Ticker, infoEntry](capacity) // errors only on size <= 0
	return &InfoCache{
		client: client,
		logger: logger,
		items:  items,
	}
}

// Get returns the fundamentals for ticker, fetching them on a miss.
// A failed fetch is logged and cached as empty fundamentals.
func (c *InfoCache) Get(ctx context.Context, ticker model.Ticker) model.Fundamentals {
	info, _ := c.Lookup(ctx, ticker)
	return info
}

// Lookup is Get that also reports the fetch error behind an empty result.
// The error is cached along with the empty value, so hits report it too.
// A panicking fetch propagates to every caller sharing it and caches nothing.
func (c *InfoCache) Lookup(ctx context.Context, ticker model.Ticker) (model.Fundamentals, error) {
	if e, ok := c.items.Get(ticker); ok {
		return e.info, e.err
	}
	v, _, _ := c.flight.Do(string(ticker), func() (any, error) {
		if e, ok := c.items.Get(ticker); ok {
			return e, nil
		}
		info, err := c.client.FetchFundamentals(ctx, ticker)
		if err != nil {
			c.logger.Warn("fetch fundamentals failed",
				zap.String("ticker", string(ticker)), zap.Error(err))
			info = model.Fundamentals{Ticker: ticker}
		}
		e := infoEntry{info: info, err: err}
		if err != nil && ctx.Err() != nil {
			return e, nil // caller gave up; not a verdict on the ticker
		}
		c.items.Add(ticker, e)
		return e, nil
	})
	e := v.(infoEntry)
	return e.info, e.err
}

// Len returns the number of cached tickers.
func (c *InfoCache) Len() int {
	return c.items.Len()
}

// Contains reports whether ticker is cached without touching its recency.
func (c *InfoCache) Contains(ticker model.Ticker) bool {
	return c.items.Contains(ticker)
}
