package recorder

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"ValueScreener/internal/model"
)

// SortKey selects the column a screen is ordered by.
type SortKey string

const (
	// SortTicker keeps collection order.
	SortTicker SortKey = "ticker"
	SortPrice  SortKey = "price"
	SortPE     SortKey = "pe"
	SortPB     SortKey = "pb"
	SortROE    SortKey = "roe"
)

// SortKeys lists the accepted keys.
var SortKeys = []SortKey{SortTicker, SortPrice, SortPE, SortPB, SortROE}

// ParseSortKey accepts a key case-insensitively; empty means SortTicker.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return SortTicker, nil
	}
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Filter narrows and orders the latest run. Nil labels match everything.
// Any key other than SortTicker sorts descending with missing values last.
type Filter struct {
	Graham *model.Label
	Magic  *model.Label
	SortBy SortKey
}

// Stats summarises the latest run, independent of any filter.
type Stats struct {
	Total       int
	GrahamCheap int
	MagicCheap  int
	BothCheap   int
	Failed      int
}

// Run describes one recorded collection.
type Run struct {
	ID         string
	RecordedAt time.Time
	Total      int
	Failed     int
}

// Recorder keeps the most recent screen for querying.
type Recorder interface {
	RecordRun(runID string, records []model.TickerRecord) error
	Query(f Filter) ([]model.TickerRecord, error)
	Stats() (Stats, error)
	Runs() ([]Run, error)
	Close() error
}

// Apply filters and sorts records in memory with the same semantics the
// SQLite recorder implements in SQL. records is not modified.
func Apply(records []model.TickerRecord, f Filter) []model.TickerRecord {
	out := make([]model.TickerRecord, 0, len(records))
	for _, r := range records {
		if f.Graham != nil && r.Graham != *f.Graham {
			continue
		}
		if f.Magic != nil && r.Magic != *f.Magic {
			continue
		}
		out = append(out, r)
	}

	field := column(f.SortBy)
	if field == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.TickerRecord) int {
		va, vb := field(a), field(b)
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}
		return cmp.Compare(*vb, *va)
	})
	return out
}

// Summarize computes Stats over records.
func Summarize(records []model.TickerRecord) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		if r.Graham == model.LabelCheap {
			s.GrahamCheap++
		}
		if r.Magic == model.LabelCheap {
			s.MagicCheap++
		}
		if r.Graham == model.LabelCheap && r.Magic == model.LabelCheap {
			s.BothCheap++
		}
		if r.Failed() {
			s.Failed++
		}
	}
	return s
}

func column(k SortKey) func(model.TickerRecord) *float64 {
	switch k {
	case SortPrice:
		return func(r model.TickerRecord) *float64 { return r.Price }
	case SortPE:
		return func(r model.TickerRecord) *float64 { return r.PE }
	case SortPB:
		return func(r model.TickerRecord) *float64 { return r.PB }
	case SortROE:
		return func(r model.TickerRecord) *float64 { return r.ROE }
	}
	return nil
}
