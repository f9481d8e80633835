// Package calculator computes technical indicators from close-price series.
//
// Every series function returns a slice as long as its input. Positions
// without enough history hold NaN; use IsUndefined to test for them.
package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// IsUndefined reports whether v marks a position without a value.
func IsUndefined(v float64) bool { return math.IsNaN(v) }

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA returns the simple moving average of values over period.
// The first period-1 positions are undefined.
func SMA(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sma := talib.Sma(values, period)
	copy(out[period-1:], sma[period-1:])
	return out
}

// EMA returns the exponential moving average with smoothing 2/(span+1).
// It is seeded with the first observation and carries no bias correction.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if span < 1 {
		span = 1
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (1-alpha)*out[i-1] + alpha*values[i]
	}
	return out
}
