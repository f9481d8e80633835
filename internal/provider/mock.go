package provider

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ValueScreener/internal/model"
)

// MockClient returns controllable fixed data for development and testing.
// Tickers without an explicit entry get generated data around BasePrice.
type MockClient struct {
	BasePrice    float64
	Fundamentals map[model.Ticker]model.Fundamentals
	Histories    map[model.Ticker][]model.PriceBar
	Errors       map[model.Ticker]error
	// Delay simulates network latency on every call.
	Delay time.Duration

	mu           sync.Mutex
	infoCalls    map[model.Ticker]int
	historyCalls map[historyKey]int
	inFlight     atomic.Int64
	maxInFlight  atomic.Int64
}

type historyKey struct {
	ticker model.Ticker
	period model.Period
}

func (m *MockClient) Name() string { return "mock" }

func (m *MockClient) FetchFundamentals(ctx context.Context, ticker model.Ticker) (model.Fundamentals, error) {
	m.mu.Lock()
	if m.infoCalls == nil {
		m.infoCalls = make(map[model.Ticker]int)
	}
	m.infoCalls[ticker]++
	m.mu.Unlock()

	if err := m.enter(ctx); err != nil {
		return model.Fundamentals{}, networkErr(ticker, "fundamentals", err)
	}
	defer m.inFlight.Add(-1)

	if err, ok := m.Errors[ticker]; ok {
		return model.Fundamentals{}, &FetchError{Ticker: ticker, Op: "fundamentals", Err: err}
	}
	if f, ok := m.Fundamentals[ticker]; ok {
		f.Ticker = ticker
		return f, nil
	}
	return model.Fundamentals{
		Ticker:         ticker,
		CurrentPrice:   model.Float(m.price()),
		TrailingPE:     model.Float(12),
		PriceToBook:    model.Float(1.5),
		ReturnOnEquity: model.Float(0.18),
		LongName:       string(ticker) + " Mock Corp",
	}, nil
}

func (m *MockClient) FetchHistory(ctx context.Context, ticker model.Ticker, period model.Period) (model.PriceHistory, error) {
	m.mu.Lock()
	if m.historyCalls == nil {
		m.historyCalls = make(map[historyKey]int)
	}
	m.historyCalls[historyKey{ticker, period}]++
	m.mu.Unlock()

	hist := model.PriceHistory{Ticker: ticker, Period: period}
	if err := m.enter(ctx); err != nil {
		return hist, networkErr(ticker, "history", err)
	}
	defer m.inFlight.Add(-1)

	if err, ok := m.Errors[ticker]; ok {
		return hist, &FetchError{Ticker: ticker, Op: "history", Err: err}
	}
	if bars, ok := m.Histories[ticker]; ok {
		hist.Bars = bars
		return hist, nil
	}
	hist.Bars = generateMockBars(m.price(), periodDays(period))
	return hist, nil
}

// InfoCalls reports how many fundamentals fetches were made for ticker.
func (m *MockClient) InfoCalls(ticker model.Ticker) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.infoCalls[ticker]
}

// HistoryCalls reports how many history fetches were made for (ticker, period).
func (m *MockClient) HistoryCalls(ticker model.Ticker, period model.Period) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.historyCalls[historyKey{ticker, period}]
}

// MaxInFlight is the highest number of concurrent calls observed.
func (m *MockClient) MaxInFlight() int { return int(m.maxInFlight.Load()) }

func (m *MockClient) enter(ctx context.Context) error {
	n := m.inFlight.Add(1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.Delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		m.inFlight.Add(-1)
		return ctx.Err()
	case <-time.After(m.Delay):
		return nil
	}
}

func (m *MockClient) price() float64 {
	if m.BasePrice > 0 {
		return m.BasePrice
	}
	return 100
}

func periodDays(p model.Period) int {
	switch p {
	case model.Period5d:
		return 5
	case model.Period1mo:
		return 21
	case model.Period3mo:
		return 63
	case model.Period6mo:
		return 126
	case model.Period1y:
		return 252
	case model.Period2y:
		return 504
	case model.Period5y:
		return 1260
	}
	return 5
}

func generateMockBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
