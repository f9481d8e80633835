package recorder

import (
	"slices"
	"sync"
	"time"

	"ValueScreener/internal/model"
)

// MemoryRecorder is the fallback used when SQLite cannot be opened.
type MemoryRecorder struct {
	mu     sync.RWMutex
	latest []model.TickerRecord
	runs   []Run
}

func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

func (m *MemoryRecorder) RecordRun(runID string, records []model.TickerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = slices.Clone(records)
	st := Summarize(records)
	m.runs = append(m.runs, Run{ID: runID, RecordedAt: time.Now().UTC(), Total: st.Total, Failed: st.Failed})
	return nil
}

func (m *MemoryRecorder) Query(f Filter) ([]model.TickerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Apply(m.latest, f), nil
}

func (m *MemoryRecorder) Stats() (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Summarize(m.latest), nil
}

func (m *MemoryRecorder) Runs() ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.runs), nil
}

func (m *MemoryRecorder) Close() error { return nil }
