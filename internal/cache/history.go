package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ValueScreener/internal/model"
	"ValueScreener/internal/provider"
)

// DefaultHistoryTTL is how long a fetched price history stays fresh.
const DefaultHistoryTTL = time.Hour

type historyKey struct {
	ticker model.Ticker
	period model.Period
}

func (k historyKey) String() string { return string(k.ticker) + "|" + string(k.period) }

type historyResult struct {
	hist model.PriceHistory
	err  error
}

type historyEntry struct {
	hist     model.PriceHistory
	storedAt time.Time
}

// HistoryCache memoizes price histories per (ticker, period) with a fixed TTL
// measured from insertion.
type HistoryCache struct {
	client provider.Client
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[historyKey]historyEntry

	flight singleflight.Group
}

// HistoryOption configures a HistoryCache.
type HistoryOption func(*HistoryCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) HistoryOption {
	return func(c *HistoryCache) { c.now = now }
}

// NewHistoryCache creates a HistoryCache. ttl <= 0 selects DefaultHistoryTTL.
func NewHistoryCache(client provider.Client, ttl time.Duration, logger *zap.Logger, opts ...HistoryOption) *HistoryCache {
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &HistoryCache{
		client:  client,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[historyKey]historyEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the history for (ticker, period), fetching it when missing or expired.
// A failed fetch is logged and yields an empty history that is not cached.
func (c *HistoryCache) Get(ctx context.Context, ticker model.Ticker, period model.Period) model.PriceHistory {
	hist, _ := c.Lookup(ctx, ticker, period)
	return hist
}

// Lookup is Get that also reports the fetch error behind an empty result.
func (c *HistoryCache) Lookup(ctx context.Context, ticker model.Ticker, period model.Period) (model.PriceHistory, error) {
	key := historyKey{ticker: ticker, period: period}
	if hist, ok := c.lookup(key); ok {
		return hist, nil
	}
	v, _, _ := c.flight.Do(key.String(), func() (any, error) {
		if hist, ok := c.lookup(key); ok {
			return historyResult{hist: hist}, nil
		}
		hist, err := c.client.FetchHistory(ctx, ticker, period)
		if err != nil {
			c.logger.Warn("fetch history failed",
				zap.String("ticker", string(ticker)),
				zap.String("period", string(period)),
				zap.Error(err))
			return historyResult{hist: model.PriceHistory{Ticker: ticker, Period: period}, err: err}, nil
		}
		c.mu.Lock()
		c.entries[key] = historyEntry{hist: hist, storedAt: c.now()}
		c.mu.Unlock()
		return historyResult{hist: hist}, nil
	})
	res := v.(historyResult)
	return res.hist, res.err
}

// Purge drops expired entries and returns how many were removed.
func (c *HistoryCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, fresh or not.
func (c *HistoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *HistoryCache) lookup(key historyKey) (model.PriceHistory, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return model.PriceHistory{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return model.PriceHistory{}, false
	}
	return e.hist, true
}
