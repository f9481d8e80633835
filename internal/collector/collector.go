// Package collector screens a ticker universe in sequential batches of
// concurrently processed tickers.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"ValueScreener/internal/cache"
	"ValueScreener/internal/classifier"
	"ValueScreener/internal/model"
)

const (
	DefaultBatchSize   = 10
	DefaultCallTimeout = 20 * time.Second
)

// Progress is reported once per completed batch.
type Progress struct {
	Batch    int // 1-based index of the batch just finished
	Batches  int
	Done     int // tickers processed so far
	Total    int
	Fraction float64 // Batch / Batches, in [0, 1]
}

// ProgressObserver receives progress after each batch barrier. Calls are
// sequential and made from the goroutine running Collect, so implementations
// need not be safe for concurrent use.
type ProgressObserver interface {
	OnProgress(p Progress)
}

// ProgressFunc adapts a function to ProgressObserver.
type ProgressFunc func(p Progress)

func (f ProgressFunc) OnProgress(p Progress) { f(p) }

type runIDKey struct{}

// WithRunID tags ctx so Collect logs under id instead of generating one.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the id set by WithRunID, if any.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// Collector orchestrates data fetching and classification for a ticker list.
type Collector struct {
	Info        *cache.InfoCache
	History     *cache.HistoryCache
	BatchSize   int
	CallTimeout time.Duration

	logger *zap.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithBatchSize sets the batch size, which is also the concurrency cap.
func WithBatchSize(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.BatchSize = n
		}
	}
}

// WithCallTimeout bounds every provider call made for a ticker.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.CallTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCollector creates a new Collector over the shared caches.
func NewCollector(info *cache.InfoCache, history *cache.HistoryCache, opts ...Option) *Collector {
	c := &Collector{
		Info:        info,
		History:     history,
		BatchSize:   DefaultBatchSize,
		CallTimeout: DefaultCallTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Partition splits tickers into consecutive batches of at most size elements.
func Partition(tickers []model.Ticker, size int) [][]model.Ticker {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([][]model.Ticker, 0, (len(tickers)+size-1)/size)
	for start := 0; start < len(tickers); start += size {
		end := min(start+size, len(tickers))
		batches = append(batches, tickers[start:end])
	}
	return batches
}

// Collect screens every ticker and returns exactly one record per input, in
// input order. Batches run one after another; tickers within a batch run
// concurrently. A ticker that fails yields an error record and never affects
// its siblings. obs may be nil.
func (c *Collector) Collect(ctx context.Context, tickers []model.Ticker, obs ProgressObserver) []model.TickerRecord {
	runID, ok := RunID(ctx)
	if !ok {
		runID = uuid.NewString()
	}
	log := c.logger.With(zap.String("run_id", runID))
	started := time.Now()

	batches := Partition(tickers, c.BatchSize)
	records := make([]model.TickerRecord, 0, len(tickers))
	log.Info("collection started",
		zap.Int("tickers", len(tickers)), zap.Int("batches", len(batches)), zap.Int("batch_size", c.BatchSize))

	for i, batch := range batches {
		log.Debug("processing batch",
			zap.Int("batch", i+1), zap.Int("batches", len(batches)),
			zap.Int("from", i*c.BatchSize+1), zap.Int("to", i*c.BatchSize+len(batch)))

		records = append(records, c.runBatch(ctx, batch, log)...)

		if obs != nil {
			obs.OnProgress(Progress{
				Batch:    i + 1,
				Batches:  len(batches),
				Done:     len(records),
				Total:    len(tickers),
				Fraction: float64(i+1) / float64(len(batches)),
			})
		}
	}

	failed := 0
	for _, r := range records {
		if r.Failed() {
			failed++
		}
	}
	log.Info("collection finished",
		zap.Int("records", len(records)), zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(started)))
	return records
}

// runBatch processes one batch on a pool capped at the batch size. Each task
// writes only its own slot, so the slice needs no locking.
func (c *Collector) runBatch(ctx context.Context, batch []model.Ticker, log *zap.Logger) []model.TickerRecord {
	slots := make([]model.TickerRecord, len(batch))
	p := pool.New().WithMaxGoroutines(len(batch))
	for i, ticker := range batch {
		p.Go(func() {
			var pc panics.Catcher
			pc.Try(func() {
				rec, err := c.processTicker(ctx, ticker)
				if err != nil {
					log.Warn("ticker failed", zap.String("ticker", string(ticker)), zap.Error(err))
					rec = model.NewErrorRecord(ticker, err)
				}
				slots[i] = rec
			})
			if r := pc.Recovered(); r != nil {
				log.Error("ticker panicked", zap.String("ticker", string(ticker)), zap.Any("panic", r.Value))
				slots[i] = model.NewErrorRecord(ticker, fmt.Errorf("panic: %v", r.Value))
			}
		})
	}
	p.Wait()
	return slots
}

func (c *Collector) processTicker(ctx context.Context, ticker model.Ticker) (model.TickerRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.TickerRecord{}, fmt.Errorf("collect %s: %w", ticker, err)
	}

	infoCtx, cancel := context.WithTimeout(ctx, c.CallTimeout)
	info, infoErr := c.Info.Lookup(infoCtx, ticker)
	cancel()

	histCtx, cancel := context.WithTimeout(ctx, c.CallTimeout)
	hist, histErr := c.History.Lookup(histCtx, ticker, model.PeriodRecent)
	cancel()

	switch {
	case infoErr != nil && histErr != nil:
		return model.TickerRecord{}, fmt.Errorf("%w; %w", infoErr, histErr)
	case infoErr != nil:
		return model.TickerRecord{}, infoErr
	case histErr != nil:
		return model.TickerRecord{}, histErr
	}

	rec := model.TickerRecord{
		Ticker: ticker,
		PE:     info.TrailingPE,
		PB:     info.PriceToBook,
		ROE:    info.ReturnOnEquity,
		Graham: classifier.GrahamLabel(info.TrailingPE, info.PriceToBook),
		Magic:  classifier.MagicLabel(info.TrailingPE, info.ReturnOnEquity),
	}
	if last, ok := hist.LastClose(); ok {
		rec.Price = model.Float(last)
	}
	return rec, nil
}
