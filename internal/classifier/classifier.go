// Package classifier labels tickers under the Graham and Magic Formula heuristics.
package classifier

import (
	"ValueScreener/internal/model"
)

const (
	// GrahamMaxScore is the ceiling for P/E × P/B below which a stock is cheap.
	GrahamMaxScore = 22.5
	// MagicMaxPE and MagicMinROE bound the Greenblatt-style screen.
	MagicMaxPE  = 15.0
	MagicMinROE = 0.15
)

// present treats nil and zero as absent. Negative and NaN ratios are present;
// a NaN fails every threshold and labels Expensive.
func present(v *float64) bool {
	return v != nil && *v != 0
}

// GrahamLabel classifies by the Graham number rule: P/E × P/B < 22.5 is cheap.
func GrahamLabel(pe, pb *float64) model.Label {
	if !present(pe) || !present(pb) {
		return model.LabelUndefined
	}
	if *pe**pb < GrahamMaxScore {
		return model.LabelCheap
	}
	return model.LabelExpensive
}

// MagicLabel classifies by P/E < 15 and ROE > 15%.
func MagicLabel(pe, roe *float64) model.Label {
	if !present(pe) || !present(roe) {
		return model.LabelUndefined
	}
	if *pe < MagicMaxPE && *roe > MagicMinROE {
		return model.LabelCheap
	}
	return model.LabelExpensive
}

// BothCheap reports whether both heuristics agree the ticker is cheap.
func BothCheap(r model.TickerRecord) bool {
	return r.Graham == model.LabelCheap && r.Magic == model.LabelCheap
}
