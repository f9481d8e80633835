package model

import (
	"fmt"
	"time"
)

// Ticker is an exchange-qualified symbol, e.g. "PETR4.SA" or "AAPL".
type Ticker string

// Period is a history lookback understood by the market data provider.
type Period string

const (
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"

	// PeriodRecent is the short horizon used to read the last close during collection.
	PeriodRecent = Period5d
)

// SelectablePeriods are the price-history lookbacks offered in the detail view.
var SelectablePeriods = []Period{Period1mo, Period3mo, Period6mo, Period1y, Period2y, Period5y}

// TechnicalPeriods are the lookbacks offered for RSI/MACD.
var TechnicalPeriods = []Period{Period1mo, Period3mo, Period6mo, Period1y}

// ParsePeriod validates a user supplied period.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if p == PeriodRecent {
		return p, nil
	}
	for _, v := range SelectablePeriods {
		if v == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported period %q", s)
}

// PriceBar is a single daily OHLCV observation.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceHistory holds bars in ascending time order. It may be empty.
type PriceHistory struct {
	Ticker Ticker
	Period Period
	Bars   []PriceBar
}

// Empty reports whether the history has no bars.
func (h PriceHistory) Empty() bool { return len(h.Bars) == 0 }

// Closes returns the close prices in bar order.
func (h PriceHistory) Closes() []float64 {
	closes := make([]float64, len(h.Bars))
	for i, b := range h.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, or false when the history is empty.
func (h PriceHistory) LastClose() (float64, bool) {
	if len(h.Bars) == 0 {
		return 0, false
	}
	return h.Bars[len(h.Bars)-1].Close, true
}
