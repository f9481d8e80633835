// Package universe holds the static ticker lists the screener runs over.
package universe

import (
	"fmt"
	"strings"

	"ValueScreener/internal/model"
)

// Index names a ticker universe.
type Index string

const (
	IBOV  Index = "IBOVESPA"
	SP500 Index = "S&P 500"
)

// Indexes lists the supported universes.
var Indexes = []Index{IBOV, SP500}

// B3Suffix qualifies tickers listed on the Brazilian exchange.
const B3Suffix = ".SA"

// ParseIndex accepts the index name or a short alias.
func ParseIndex(s string) (Index, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IBOVESPA", "IBOV", "B3":
		return IBOV, nil
	case "S&P 500", "S&P500", "SP500", "SPX":
		return SP500, nil
	}
	return "", fmt.Errorf("unknown index %q", s)
}

// Tickers returns a copy of the universe for idx.
func Tickers(idx Index) []model.Ticker {
	var src []string
	switch idx {
	case IBOV:
		src = ibovTickers
	case SP500:
		src = sp500Tickers
	}
	out := make([]model.Ticker, len(src))
	for i, s := range src {
		out[i] = model.Ticker(s)
	}
	return out
}

// Normalize turns user input into a ticker. For IBOVESPA a bare symbol gets
// the B3 suffix; anything already exchange-qualified is left alone.
func Normalize(input string, idx Index) model.Ticker {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" {
		return ""
	}
	if idx == IBOV && !strings.Contains(s, ".") {
		s += B3Suffix
	}
	return model.Ticker(s)
}
