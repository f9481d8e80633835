package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"ValueScreener/internal/model"
)

// memoryDSN keeps the database inside the process. A single pooled connection
// is required, since each new :memory: connection is a fresh empty database.
const memoryDSN = ":memory:"

// SQLiteRecorder holds the latest screen in an in-memory SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens the in-memory database and runs migrations.
func NewSQLiteRecorder(logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("dsn", memoryDSN))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			recorded_at INTEGER NOT NULL,
			total       INTEGER NOT NULL,
			failed      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(recorded_at)`,

		`CREATE TABLE IF NOT EXISTS records (
			seq    INTEGER PRIMARY KEY,
			ticker TEXT NOT NULL,
			price  REAL,
			pe     REAL,
			pb     REAL,
			roe    REAL,
			graham TEXT NOT NULL,
			magic  TEXT NOT NULL,
			err    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_labels ON records(graham, magic)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", snippet(s, 40), err)
		}
	}
	return nil
}

// snippet returns at most n bytes of s, for error messages.
func snippet(s string, n int) string {
	return s[:min(n, len(s))]
}

// RecordRun replaces the stored screen with records and appends to the run log.
func (r *SQLiteRecorder) RecordRun(runID string, records []model.TickerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO records
		(seq, ticker, price, pe, pb, roe, graham, magic, err)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.Exec(i, string(rec.Ticker),
			nullable(rec.Price), nullable(rec.PE), nullable(rec.PB), nullable(rec.ROE),
			rec.Graham.String(), rec.Magic.String(), rec.Err,
		); err != nil {
			return fmt.Errorf("insert %s: %w", rec.Ticker, err)
		}
	}

	st := Summarize(records)
	if _, err := tx.Exec(`INSERT INTO runs (id, recorded_at, total, failed) VALUES (?,?,?,?)`,
		runID, time.Now().UnixNano(), st.Total, st.Failed,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.logger.Debug("run recorded", zap.String("run_id", runID), zap.Int("records", len(records)))
	return nil
}

// Query returns the latest screen filtered by label and ordered by f.SortBy.
func (r *SQLiteRecorder) Query(f Filter) ([]model.TickerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := `SELECT ticker, price, pe, pb, roe, graham, magic, err FROM records WHERE 1=1`
	var args []any
	if f.Graham != nil {
		q += ` AND graham = ?`
		args = append(args, f.Graham.String())
	}
	if f.Magic != nil {
		q += ` AND magic = ?`
		args = append(args, f.Magic.String())
	}
	if col, ok := sqlColumns[f.SortBy]; ok {
		q += fmt.Sprintf(` ORDER BY %[1]s IS NULL, %[1]s DESC, seq`, col)
	} else {
		q += ` ORDER BY seq`
	}

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []model.TickerRecord
	for rows.Next() {
		var (
			ticker, graham, magic, errMsg string
			price, pe, pb, roe            sql.NullFloat64
		)
		if err := rows.Scan(&ticker, &price, &pe, &pb, &roe, &graham, &magic, &errMsg); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec := model.TickerRecord{
			Ticker: model.Ticker(ticker),
			Price:  ptr(price),
			PE:     ptr(pe),
			PB:     ptr(pb),
			ROE:    ptr(roe),
			Err:    errMsg,
		}
		if rec.Graham, err = model.ParseLabel(graham); err != nil {
			return nil, err
		}
		if rec.Magic, err = model.ParseLabel(magic); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats counts the latest screen. Filters do not apply.
func (r *SQLiteRecorder) Stats() (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Stats
	err := r.db.QueryRow(`SELECT
			COUNT(*),
			COALESCE(SUM(graham = 'Cheap'), 0),
			COALESCE(SUM(magic = 'Cheap'), 0),
			COALESCE(SUM(graham = 'Cheap' AND magic = 'Cheap'), 0),
			COALESCE(SUM(err <> ''), 0)
		FROM records`).Scan(&s.Total, &s.GrahamCheap, &s.MagicCheap, &s.BothCheap, &s.Failed)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return s, nil
}

// Runs lists recorded runs, oldest first.
func (r *SQLiteRecorder) Runs() ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, recorded_at, total, failed FROM runs ORDER BY recorded_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run Run
			ts  int64
		)
		if err := rows.Scan(&run.ID, &ts, &run.Total, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.RecordedAt = time.Unix(0, ts).UTC()
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}

var sqlColumns = map[SortKey]string{
	SortPrice: "price",
	SortPE:    "pe",
	SortPB:    "pb",
	SortROE:   "roe",
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return model.Float(v.Float64)
}
