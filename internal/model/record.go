package model

import (
	"fmt"
	"strings"
)

// Label is the outcome of a valuation heuristic.
type Label int

const (
	LabelUndefined Label = iota
	LabelCheap
	LabelExpensive
)

func (l Label) String() string {
	switch l {
	case LabelCheap:
		return "Cheap"
	case LabelExpensive:
		return "Expensive"
	default:
		return "Undefined"
	}
}

// ParseLabel accepts the String form case-insensitively.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cheap":
		return LabelCheap, nil
	case "expensive":
		return LabelExpensive, nil
	case "undefined":
		return LabelUndefined, nil
	}
	return LabelUndefined, fmt.Errorf("unknown label %q", s)
}

// TickerRecord is the result of screening one ticker. Never mutated after creation.
type TickerRecord struct {
	Ticker Ticker
	Price  *float64
	PE     *float64
	PB     *float64
	ROE    *float64
	Graham Label
	Magic  Label
	Err    string
}

// Failed reports whether the record carries an error instead of data.
func (r TickerRecord) Failed() bool { return r.Err != "" }

// NewErrorRecord builds the error-flagged record for a ticker that could not be processed.
func NewErrorRecord(ticker Ticker, err error) TickerRecord {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return TickerRecord{
		Ticker: ticker,
		Graham: LabelUndefined,
		Magic:  LabelUndefined,
		Err:    msg,
	}
}
