package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"ValueScreener/internal/model"
)

func f(v float64) *float64 { return &v }

func TestGrahamLabel(t *testing.T) {
	tests := []struct {
		name   string
		pe, pb *float64
		want   model.Label
	}{
		{"cheap", f(10), f(2), model.LabelCheap},
		{"expensive", f(20), f(2), model.LabelExpensive},
		{"boundary is expensive", f(11.25), f(2), model.LabelExpensive},
		{"just under boundary", f(11.2), f(2), model.LabelCheap},
		{"missing pe", nil, f(2), model.LabelUndefined},
		{"missing pb", f(10), nil, model.LabelUndefined},
		{"both missing", nil, nil, model.LabelUndefined},
		{"zero pe is absent", f(0), f(2), model.LabelUndefined},
		{"nan pb is present and fails the ceiling", f(10), f(math.NaN()), model.LabelExpensive},
		{"nan pe with missing pb", f(math.NaN()), nil, model.LabelUndefined},
		// Negative ratios are kept literally: a negative score is below the ceiling.
		{"negative pe flows through", f(-5), f(2), model.LabelCheap},
		{"two negatives multiply", f(-20), f(-2), model.LabelExpensive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GrahamLabel(tt.pe, tt.pb))
		})
	}
}

func TestMagicLabel(t *testing.T) {
	tests := []struct {
		name    string
		pe, roe *float64
		want    model.Label
	}{
		{"cheap", f(10), f(0.20), model.LabelCheap},
		{"pe too high", f(20), f(0.20), model.LabelExpensive},
		{"pe at limit", f(15), f(0.20), model.LabelExpensive},
		{"roe at limit", f(10), f(0.15), model.LabelExpensive},
		{"roe too low", f(10), f(0.05), model.LabelExpensive},
		{"missing pe", nil, f(0.2), model.LabelUndefined},
		{"missing roe", f(10), nil, model.LabelUndefined},
		{"zero roe is absent", f(10), f(0), model.LabelUndefined},
		{"nan pe is present", f(math.NaN()), f(0.3), model.LabelExpensive},
		{"nan roe is present", f(10), f(math.NaN()), model.LabelExpensive},
		{"negative pe flows through", f(-3), f(0.3), model.LabelCheap},
		{"negative roe flows through", f(10), f(-0.3), model.LabelExpensive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MagicLabel(tt.pe, tt.roe))
		})
	}
}

func TestGrahamLabel_Property(t *testing.T) {
	for pe := -30.0; pe <= 30; pe += 1.5 {
		for pb := -5.0; pb <= 5; pb += 0.25 {
			got := GrahamLabel(f(pe), f(pb))
			switch {
			case pe == 0 || pb == 0:
				assert.Equal(t, model.LabelUndefined, got)
			case pe*pb < GrahamMaxScore:
				assert.Equal(t, model.LabelCheap, got, "pe=%v pb=%v", pe, pb)
			default:
				assert.Equal(t, model.LabelExpensive, got, "pe=%v pb=%v", pe, pb)
			}
		}
	}
}

func TestBothCheap(t *testing.T) {
	assert.True(t, BothCheap(model.TickerRecord{Graham: model.LabelCheap, Magic: model.LabelCheap}))
	assert.False(t, BothCheap(model.TickerRecord{Graham: model.LabelCheap, Magic: model.LabelExpensive}))
	assert.False(t, BothCheap(model.TickerRecord{}))
}
