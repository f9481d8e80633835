// Package report renders screen results as plain text.
package report

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"ValueScreener/internal/calculator"
	"ValueScreener/internal/classifier"
	"ValueScreener/internal/collector"
	"ValueScreener/internal/model"
	"ValueScreener/internal/recorder"
)

// MaxOfficers caps the executives listed in a detail view.
const MaxOfficers = 5

const missing = "-"

// FormatTable renders one row per record. Rows where both heuristics say
// Cheap are marked with "*"; failed rows show the error instead of data.
func FormatTable(records []model.TickerRecord) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, " \tTicker\tPrice\tP/E\tP/B\tROE\tGraham\tMagic\t")
	for _, r := range records {
		mark := " "
		if classifier.BothCheap(r) {
			mark = "*"
		}
		if r.Failed() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t error: %s\n",
				mark, r.Ticker, missing, missing, missing, missing, r.Graham, r.Magic, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			mark, r.Ticker, money(r.Price), ratio(r.PE), ratio(r.PB), percent(r.ROE), r.Graham, r.Magic)
	}
	w.Flush()
	return b.String()
}

// FormatStats renders the run summary.
func FormatStats(s recorder.Stats) string {
	var b strings.Builder
	b.WriteString("Screen statistics\n")
	fmt.Fprintf(&b, "  Total tickers:       %d\n", s.Total)
	fmt.Fprintf(&b, "  Cheap (Graham):      %d\n", s.GrahamCheap)
	fmt.Fprintf(&b, "  Cheap (Magic):       %d\n", s.MagicCheap)
	fmt.Fprintf(&b, "  Cheap (both):        %d\n", s.BothCheap)
	fmt.Fprintf(&b, "  Failed:              %d\n", s.Failed)
	return b.String()
}

// FormatAlert summarises a finished run for a chat message: the counts and
// every ticker both heuristics rate Cheap.
func FormatAlert(index string, stats recorder.Stats, records []model.TickerRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s screen: %d tickers, %d cheap by Graham, %d cheap by Magic Formula, %d failed\n",
		index, stats.Total, stats.GrahamCheap, stats.MagicCheap, stats.Failed)
	var both []string
	for _, r := range records {
		if classifier.BothCheap(r) {
			both = append(both, string(r.Ticker))
		}
	}
	if len(both) == 0 {
		b.WriteString("No ticker is cheap under both rules.")
		return b.String()
	}
	fmt.Fprintf(&b, "Cheap under both rules (%d): %s", len(both), strings.Join(both, ", "))
	return b.String()
}

// FormatProgress renders one progress line.
func FormatProgress(p collector.Progress) string {
	return fmt.Sprintf("batch %d/%d (%d/%d tickers) %3.0f%%", p.Batch, p.Batches, p.Done, p.Total, p.Fraction*100)
}

// FormatDetail renders the company profile and ratios for one ticker.
func FormatDetail(info model.Fundamentals) string {
	var b strings.Builder

	name := info.LongName
	if name == "" {
		name = string(info.Ticker)
	}
	fmt.Fprintf(&b, "%s (%s)\n\n", name, info.Ticker)

	if info.IsEmpty() {
		b.WriteString("No company information available.\n")
		return b.String()
	}

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Sector:\t%s\n", orMissing(info.Sector))
	fmt.Fprintf(w, "Industry:\t%s\n", orMissing(info.Industry))
	fmt.Fprintf(w, "Country:\t%s\n", orMissing(info.Country))
	fmt.Fprintf(w, "Website:\t%s\n", orMissing(info.Website))
	w.Flush()

	if info.BusinessSummary != "" {
		fmt.Fprintf(&b, "\n%s\n", info.BusinessSummary)
	}

	if len(info.Officers) > 0 {
		b.WriteString("\nOfficers\n")
		for i, o := range info.Officers {
			if i == MaxOfficers {
				break
			}
			fmt.Fprintf(&b, "  %s - %s\n", o.Name, orMissing(o.Title))
		}
	}

	b.WriteString("\nValue ratios\n")
	w = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Price:\t%s\n", money(info.CurrentPrice))
	fmt.Fprintf(w, "  P/E:\t%s\n", ratio(info.TrailingPE))
	fmt.Fprintf(w, "  P/B:\t%s\n", ratio(info.PriceToBook))
	fmt.Fprintf(w, "  Dividend yield:\t%s\n", percent(info.DividendYield))
	w.Flush()

	b.WriteString("\nProfitability\n")
	w = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ROE:\t%s\n", percent(info.ReturnOnEquity))
	fmt.Fprintf(w, "  ROA:\t%s\n", percent(info.ReturnOnAssets))
	fmt.Fprintf(w, "  EBITDA margin:\t%s\n", percent(info.EBITDAMargins))
	w.Flush()

	fmt.Fprintf(&b, "\nGraham: %s | Magic: %s\n",
		classifier.GrahamLabel(info.TrailingPE, info.PriceToBook),
		classifier.MagicLabel(info.TrailingPE, info.ReturnOnEquity))
	return b.String()
}

// FormatAnalysis renders the latest technical readings for a price history.
func FormatAnalysis(a calculator.Analysis, hist model.PriceHistory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Price history (%s, %d bars)\n", a.Period, len(hist.Bars))
	if hist.Empty() {
		b.WriteString("  No price history available.\n")
		return b.String()
	}

	first, last := hist.Bars[0], hist.Bars[len(hist.Bars)-1]
	fmt.Fprintf(&b, "  %s .. %s\n", first.Time.Format(time.DateOnly), last.Time.Format(time.DateOnly))
	fmt.Fprintf(&b, "  Last close: %s  Volume: %s\n", humanize.FormatFloat("#,###.##", last.Close), humanize.Comma(int64(last.Volume)))
	fmt.Fprintf(&b, "  Range: %s - %s  (position %.0f%%)\n",
		humanize.FormatFloat("#,###.##", a.Low), humanize.FormatFloat("#,###.##", a.High), a.LastPos*100)

	b.WriteString("\nIndicators\n")
	if v, ok := a.LastRSI(); ok {
		fmt.Fprintf(&b, "  RSI(%d): %.2f (%s)\n", calculator.DefaultRSIWindow, v, calculator.RSIZone(v))
	} else {
		fmt.Fprintf(&b, "  RSI(%d): n/a\n", calculator.DefaultRSIWindow)
	}
	if n := len(a.MACD.Line); n > 0 {
		fmt.Fprintf(&b, "  MACD(%d,%d,%d): %.4f  signal %.4f  histogram %+.4f\n",
			calculator.DefaultMACDFast, calculator.DefaultMACDSlow, calculator.DefaultMACDSignal,
			a.MACD.Line[n-1], a.MACD.Signal[n-1], a.MACD.Histogram[n-1])
	}
	return b.String()
}

func money(v *float64) string {
	if !usable(v) {
		return missing
	}
	return humanize.FormatFloat("#,###.##", *v)
}

func ratio(v *float64) string {
	if !usable(v) {
		return missing
	}
	return fmt.Sprintf("%.2f", *v)
}

func percent(v *float64) string {
	if !usable(v) {
		return missing
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func usable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
