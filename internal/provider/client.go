package provider

import (
	"context"
	"errors"
	"fmt"

	"ValueScreener/internal/model"
)

// Client defines the interface for fetching market data.
type Client interface {
	FetchFundamentals(ctx context.Context, ticker model.Ticker) (model.Fundamentals, error)
	FetchHistory(ctx context.Context, ticker model.Ticker, period model.Period) (model.PriceHistory, error)
	Name() string
}

var (
	// ErrNotFound means the provider does not know the ticker.
	ErrNotFound = errors.New("ticker not found")
	// ErrNetwork covers transport failures, timeouts and unusable responses.
	ErrNetwork = errors.New("network error")
)

// FetchError is returned by clients for a failed lookup of one ticker.
type FetchError struct {
	Ticker model.Ticker
	Op     string // "fundamentals" or "history"
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func notFound(ticker model.Ticker, op, detail string) error {
	return &FetchError{Ticker: ticker, Op: op, Err: fmt.Errorf("%w: %s", ErrNotFound, detail)}
}

func networkErr(ticker model.Ticker, op string, err error) error {
	return &FetchError{Ticker: ticker, Op: op, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
}
