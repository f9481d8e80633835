package recorder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ValueScreener/internal/model"
)

func label(l model.Label) *model.Label { return &l }

func sampleRecords() []model.TickerRecord {
	f := model.Float
	return []model.TickerRecord{
		{Ticker: "AAA", Price: f(10), PE: f(8), PB: f(1), ROE: f(0.20), Graham: model.LabelCheap, Magic: model.LabelCheap},
		{Ticker: "BBB", Price: f(50), PE: f(30), PB: f(4), ROE: f(0.10), Graham: model.LabelExpensive, Magic: model.LabelExpensive},
		{Ticker: "CCC", Price: f(30), PE: f(12), PB: nil, ROE: f(0.25), Graham: model.LabelUndefined, Magic: model.LabelCheap},
		model.NewErrorRecord("DDD", errors.New("ticker not found")),
		{Ticker: "EEE", Price: f(20), PE: f(14), PB: f(1.2), ROE: f(0.05), Graham: model.LabelCheap, Magic: model.LabelExpensive},
	}
}

func tickers(recs []model.TickerRecord) []model.Ticker {
	out := make([]model.Ticker, len(recs))
	for i, r := range recs {
		out[i] = r.Ticker
	}
	return out
}

func recorders(t *testing.T) map[string]Recorder {
	t.Helper()
	sr, err := NewSQLiteRecorder(nil)
	require.NoError(t, err)
	t.Cleanup(func() { sr.Close() })
	return map[string]Recorder{
		"sqlite": sr,
		"memory": NewMemoryRecorder(),
	}
}

func TestRecorder_Query(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []model.Ticker
	}{
		{"all in collection order", Filter{}, []model.Ticker{"AAA", "BBB", "CCC", "DDD", "EEE"}},
		{"graham cheap", Filter{Graham: label(model.LabelCheap)}, []model.Ticker{"AAA", "EEE"}},
		{"magic cheap", Filter{Magic: label(model.LabelCheap)}, []model.Ticker{"AAA", "CCC"}},
		{"both cheap", Filter{Graham: label(model.LabelCheap), Magic: label(model.LabelCheap)}, []model.Ticker{"AAA"}},
		{"undefined graham", Filter{Graham: label(model.LabelUndefined)}, []model.Ticker{"CCC", "DDD"}},
		{"price desc", Filter{SortBy: SortPrice}, []model.Ticker{"BBB", "CCC", "EEE", "AAA", "DDD"}},
		{"pb desc missing last", Filter{SortBy: SortPB}, []model.Ticker{"BBB", "EEE", "AAA", "CCC", "DDD"}},
		{"roe desc filtered", Filter{Magic: label(model.LabelExpensive), SortBy: SortROE}, []model.Ticker{"BBB", "EEE"}},
		{"pe desc", Filter{SortBy: SortPE}, []model.Ticker{"BBB", "EEE", "CCC", "AAA", "DDD"}},
	}

	for name, rec := range recorders(t) {
		require.NoError(t, rec.RecordRun("run-1", sampleRecords()))
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := rec.Query(tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, tickers(got))
			})
		}
	}
}

func TestRecorder_RoundTripsValues(t *testing.T) {
	for name, rec := range recorders(t) {
		t.Run(name, func(t *testing.T) {
			in := sampleRecords()
			require.NoError(t, rec.RecordRun("run-1", in))
			got, err := rec.Query(Filter{})
			require.NoError(t, err)
			assert.Equal(t, in, got)
		})
	}
}

func TestRecorder_Stats(t *testing.T) {
	for name, rec := range recorders(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, rec.RecordRun("run-1", sampleRecords()))
			st, err := rec.Stats()
			require.NoError(t, err)
			assert.Equal(t, Stats{Total: 5, GrahamCheap: 2, MagicCheap: 2, BothCheap: 1, Failed: 1}, st)
		})
	}
}

func TestRecorder_EmptyStats(t *testing.T) {
	for name, rec := range recorders(t) {
		t.Run(name, func(t *testing.T) {
			st, err := rec.Stats()
			require.NoError(t, err)
			assert.Equal(t, Stats{}, st)
			got, err := rec.Query(Filter{})
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestRecorder_LatestRunReplaces(t *testing.T) {
	for name, rec := range recorders(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, rec.RecordRun("run-1", sampleRecords()))
			require.NoError(t, rec.RecordRun("run-2", sampleRecords()[:2]))

			got, err := rec.Query(Filter{})
			require.NoError(t, err)
			assert.Equal(t, []model.Ticker{"AAA", "BBB"}, tickers(got))

			runs, err := rec.Runs()
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "run-1", runs[0].ID)
			assert.Equal(t, 5, runs[0].Total)
			assert.Equal(t, 1, runs[0].Failed)
			assert.Equal(t, "run-2", runs[1].ID)
			assert.Equal(t, 2, runs[1].Total)
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := sampleRecords()
	_ = Apply(in, Filter{SortBy: SortPrice})
	assert.Equal(t, []model.Ticker{"AAA", "BBB", "CCC", "DDD", "EEE"}, tickers(in))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortTicker, k)

	k, err = ParseSortKey(" ROE ")
	require.NoError(t, err)
	assert.Equal(t, SortROE, k)

	_, err = ParseSortKey("volume")
	assert.Error(t, err)
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"longer is cut", "CREATE TABLE IF NOT EXISTS runs (id TEXT PRIMARY KEY)", 12, "CREATE TABLE"},
		{"shorter is kept", "VACUUM", 40, "VACUUM"},
		{"exact length", "PRAGMA x", 8, "PRAGMA x"},
		{"empty", "", 40, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snippet(tt.in, tt.n))
		})
	}
}
