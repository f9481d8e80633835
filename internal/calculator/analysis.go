package calculator

import "ValueScreener/internal/model"

// Analysis bundles the indicators shown for a single ticker.
type Analysis struct {
	Ticker  model.Ticker
	Period  model.Period
	Closes  []float64
	RSI     []float64
	MACD    MACDResult
	High    float64
	Low     float64
	LastPos float64 // position of the last close within [Low, High]
}

// Analyze computes RSI(14), MACD(12,26,9) and the period range for hist.
// An empty history gives empty series and a zero range.
func Analyze(hist model.PriceHistory) Analysis {
	closes := hist.Closes()
	a := Analysis{
		Ticker: hist.Ticker,
		Period: hist.Period,
		Closes: closes,
		RSI:    RSI(closes, DefaultRSIWindow),
		MACD:   MACD(closes, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal),
	}
	if high, low, err := PeriodRange(hist.Bars); err == nil {
		a.High, a.Low = high, low
		last, _ := hist.LastClose()
		a.LastPos, _ = RangePosition(last, high, low)
	}
	return a
}

// LastRSI returns the most recent defined RSI value.
func (a Analysis) LastRSI() (float64, bool) {
	for i := len(a.RSI) - 1; i >= 0; i-- {
		if !IsUndefined(a.RSI[i]) {
			return a.RSI[i], true
		}
	}
	return 0, false
}

// RSIZone classifies an RSI reading against the 30/70 bands.
func RSIZone(v float64) string {
	switch {
	case IsUndefined(v):
		return "n/a"
	case v >= 70:
		return "overbought"
	case v <= 30:
		return "oversold"
	default:
		return "neutral"
	}
}
