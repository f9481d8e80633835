package calculator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ValueScreener/internal/model"
)

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestRSI_HandComputed(t *testing.T) {
	got := RSI([]float64{1, 2, 3, 2, 3}, 2)
	require.Len(t, got, 5)
	assert.True(t, IsUndefined(got[0]))
	assert.True(t, IsUndefined(got[1]))
	assert.Equal(t, 100.0, got[2])
	assert.Equal(t, 50.0, got[3])
	assert.Equal(t, 50.0, got[4])
}

func TestRSI_WarmupIsUndefinedNotZero(t *testing.T) {
	closes := linear(40, 10, 0.5)
	got := RSI(closes, DefaultRSIWindow)
	require.Len(t, got, len(closes))
	for i := 0; i < DefaultRSIWindow; i++ {
		assert.True(t, IsUndefined(got[i]), "index %d should be undefined", i)
	}
	for i := DefaultRSIWindow; i < len(got); i++ {
		assert.False(t, IsUndefined(got[i]), "index %d should be defined", i)
	}
}

func TestRSI_MonotonicSeries(t *testing.T) {
	up := RSI(linear(60, 10, 1), DefaultRSIWindow)
	down := RSI(linear(60, 100, -1), DefaultRSIWindow)
	for i := DefaultRSIWindow; i < 60; i++ {
		assert.InDelta(t, 100.0, up[i], 1e-9)
		assert.InDelta(t, 0.0, down[i], 1e-9)
	}
}

func TestRSI_BoundedOnNoisySeries(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 50 + 10*math.Sin(float64(i)/3) + float64(i%7)
	}
	for i, v := range RSI(closes, DefaultRSIWindow) {
		if IsUndefined(v) {
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.LessOrEqual(t, v, 100.0, "index %d", i)
	}
}

func TestRSI_FlatSeriesUndefined(t *testing.T) {
	for _, v := range RSI(linear(30, 5, 0), 14) {
		assert.True(t, IsUndefined(v))
	}
}

func TestRSI_FlatAndRisingTailAfterNoisyHistory(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2024} {
		rng := rand.New(rand.NewSource(seed))
		closes := make([]float64, 0, 290)
		price := 100.0
		for i := 0; i < 250; i++ {
			price += rng.NormFloat64() * 3
			closes = append(closes, price)
		}
		for i := 0; i < 20; i++ {
			closes = append(closes, price)
		}
		for i := 1; i <= 20; i++ {
			closes = append(closes, price+float64(i))
		}

		rsi := RSI(closes, DefaultRSIWindow)
		require.Len(t, rsi, len(closes))
		for i := 264; i < 270; i++ {
			assert.True(t, IsUndefined(rsi[i]), "seed %d index %d: %v", seed, i, rsi[i])
		}
		for i := 284; i < 290; i++ {
			assert.Equal(t, 100.0, rsi[i], "seed %d index %d", seed, i)
		}
	}
}

func TestRSI_ShortAndEmptyInput(t *testing.T) {
	assert.Empty(t, RSI(nil, DefaultRSIWindow))
	assert.Empty(t, RSI([]float64{}, DefaultRSIWindow))

	got := RSI(linear(14, 1, 1), 14)
	require.Len(t, got, 14)
	for _, v := range got {
		assert.True(t, IsUndefined(v))
	}
}

func TestRSI_Deterministic(t *testing.T) {
	closes := []float64{44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08,
		45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64}
	a := RSI(closes, 14)
	b := RSI(closes, 14)
	for i := range a {
		if IsUndefined(a[i]) {
			assert.True(t, IsUndefined(b[i]))
			continue
		}
		assert.Equal(t, math.Float64bits(a[i]), math.Float64bits(b[i]))
	}
}

func TestEMA_SeededWithFirstObservation(t *testing.T) {
	got := EMA([]float64{1, 2, 3}, 3) // alpha = 0.5
	assert.Equal(t, []float64{1, 1.5, 2.25}, got)
	assert.Empty(t, EMA(nil, 3))
}

func TestMACD_ShapeAndHistogramIdentity(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/5) + 0.1*float64(i)
	}
	res := MACD(closes, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	require.Len(t, res.Line, len(closes))
	require.Len(t, res.Signal, len(closes))
	require.Len(t, res.Histogram, len(closes))
	for i := range closes {
		assert.Equal(t, res.Line[i]-res.Signal[i], res.Histogram[i], "index %d", i)
	}
	// Every series starts at zero because all EMAs share the first close as seed.
	assert.Equal(t, 0.0, res.Line[0])
	assert.Equal(t, 0.0, res.Signal[0])
}

func TestMACD_ConstantSeriesIsZero(t *testing.T) {
	res := MACD(linear(50, 42, 0), 12, 26, 9)
	for i := range res.Line {
		assert.InDelta(t, 0.0, res.Line[i], 1e-12)
		assert.InDelta(t, 0.0, res.Histogram[i], 1e-12)
	}
}

func TestMACD_RisingSeriesPositiveLine(t *testing.T) {
	res := MACD(linear(60, 10, 1), 12, 26, 9)
	for i := 1; i < 60; i++ {
		assert.Greater(t, res.Line[i], 0.0)
	}
}

func TestMACD_EmptyInput(t *testing.T) {
	res := MACD(nil, 12, 26, 9)
	assert.Empty(t, res.Line)
	assert.Empty(t, res.Signal)
	assert.Empty(t, res.Histogram)
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.True(t, IsUndefined(got[0]))
	assert.True(t, IsUndefined(got[1]))
	assert.Equal(t, []float64{2, 3, 4}, got[2:])

	short := SMA([]float64{1, 2}, 3)
	assert.Len(t, short, 2)
	assert.True(t, IsUndefined(short[1]))
}

func TestPeriodRange(t *testing.T) {
	bars := []model.PriceBar{
		{High: 10, Low: 8},
		{High: 12, Low: 9},
		{High: 11, Low: 7},
	}
	high, low, err := PeriodRange(bars)
	require.NoError(t, err)
	assert.Equal(t, 12.0, high)
	assert.Equal(t, 7.0, low)

	_, _, err = PeriodRange(nil)
	assert.Error(t, err)
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
		wantErr            bool
	}{
		{15, 20, 10, 0.5, false},
		{25, 20, 10, 1, false},
		{5, 20, 10, 0, false},
		{10, 10, 10, 0.5, false},
		{10, 5, 10, 0, true},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.current, tt.high, tt.low)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestAnalyze(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	hist := model.PriceHistory{Ticker: "WEGE3.SA", Period: model.Period6mo}
	for i, c := range linear(30, 40, 0.5) {
		hist.Bars = append(hist.Bars, model.PriceBar{Time: start.AddDate(0, 0, i), High: c + 1, Low: c - 1, Close: c})
	}

	a := Analyze(hist)
	assert.Len(t, a.RSI, 30)
	assert.Len(t, a.MACD.Line, 30)
	last, ok := a.LastRSI()
	require.True(t, ok)
	assert.Equal(t, 100.0, last)
	assert.Equal(t, "overbought", RSIZone(last))
	assert.Equal(t, 55.5, a.High)
	assert.Equal(t, 39.0, a.Low)

	empty := Analyze(model.PriceHistory{})
	assert.Empty(t, empty.RSI)
	_, ok = empty.LastRSI()
	assert.False(t, ok)
}

func TestRSIZone(t *testing.T) {
	assert.Equal(t, "oversold", RSIZone(25))
	assert.Equal(t, "neutral", RSIZone(50))
	assert.Equal(t, "n/a", RSIZone(math.NaN()))
}
