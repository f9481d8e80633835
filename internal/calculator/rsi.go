package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// DefaultRSIWindow is the conventional RSI lookback.
const DefaultRSIWindow = 14

// RSI computes the relative strength index of closes using simple rolling
// means of gains and losses over window deltas.
//
// Position i needs window deltas ending at i, so positions 0..window-1 are
// undefined. A window with no losses yields 100; a flat window (no gains and
// no losses) is undefined.
func RSI(closes []float64, window int) []float64 {
	out := undefinedSeries(len(closes))
	if window <= 0 || len(closes) <= window {
		return out
	}

	n := len(closes) - 1
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 0; i < n; i++ {
		delta := closes[i+1] - closes[i]
		if delta > 0 {
			gains[i] = delta
		} else if delta < 0 {
			losses[i] = -delta
		}
	}

	avgGain := talib.Sma(gains, window)
	avgLoss := talib.Sma(losses, window)

	// The running sums inside Sma leave residue once large moves leave the
	// window, so a window with no gains (or no losses) is pinned to zero.
	var up, down int
	for j := 0; j < n; j++ {
		up += nonzero(gains[j])
		down += nonzero(losses[j])
		if j >= window {
			up -= nonzero(gains[j-window])
			down -= nonzero(losses[j-window])
		}
		if j < window-1 {
			continue
		}
		g, l := avgGain[j], avgLoss[j]
		if up == 0 {
			g = 0
		}
		if down == 0 {
			l = 0
		}
		out[j+1] = rsiValue(g, l)
	}
	return out
}

func nonzero(v float64) int {
	if v != 0 {
		return 1
	}
	return 0
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return math.NaN()
	case avgLoss == 0:
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
