package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"ValueScreener/internal/cache"
	"ValueScreener/internal/collector"
	"ValueScreener/internal/model"
	"ValueScreener/internal/recorder"
)

// ErrRunInProgress is returned by RunNow while another screen is running.
var ErrRunInProgress = errors.New("screen already running")

// Result is handed to the OnComplete hook after every finished screen.
type Result struct {
	RunID    string
	Records  []model.TickerRecord
	Stats    recorder.Stats
	Duration time.Duration
}

// Scheduler re-runs the screen on a cron expression so the caches stay warm
// and the recorder always holds a recent result.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	History   *cache.HistoryCache
	Recorder  recorder.Recorder
	Tickers   []model.Ticker
	Ctx       context.Context

	// OnComplete, if set, is called after each recorded run.
	OnComplete func(Result)
	// OnProgress, if set, receives per-batch progress.
	OnProgress collector.ProgressObserver

	logger  *zap.Logger
	running atomic.Bool
	async   conc.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, history *cache.HistoryCache, rec recorder.Recorder, tickers []model.Ticker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		Collector: col,
		History:   history,
		Recorder:  rec,
		Tickers:   tickers,
		Ctx:       ctx,
		logger:    logger,
	}
}

// Register schedules the screen on spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register screen task: %w", err)
	}
	s.logger.Info("screen task registered", zap.String("cron", spec))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running screens, cron and
// RunAsync alike, to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.async.Wait()
	s.logger.Info("scheduler stopped")
}

// RunAsync starts a screen in the background. Stop waits for it.
func (s *Scheduler) RunAsync() {
	s.async.Go(func() {
		if _, err := s.RunNow(); err != nil {
			s.logger.Error("background screen failed", zap.Error(err))
		}
	})
}

// RunNow executes a screen immediately (for manual trigger / run on start).
func (s *Scheduler) RunNow() (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrRunInProgress
	}
	defer s.running.Store(false)
	return s.screen()
}

func (s *Scheduler) tick() {
	if _, err := s.RunNow(); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			s.logger.Warn("previous screen still running, skipping tick")
			return
		}
		s.logger.Error("scheduled screen failed", zap.Error(err))
	}
}

func (s *Scheduler) screen() (Result, error) {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))
	started := time.Now()

	if n := s.History.Purge(); n > 0 {
		log.Debug("expired history entries purged", zap.Int("purged", n))
	}

	records := s.Collector.Collect(collector.WithRunID(s.Ctx, runID), s.Tickers, s.OnProgress)
	if err := s.Recorder.RecordRun(runID, records); err != nil {
		return Result{}, fmt.Errorf("record run %s: %w", runID, err)
	}
	stats, err := s.Recorder.Stats()
	if err != nil {
		return Result{}, fmt.Errorf("stats for run %s: %w", runID, err)
	}

	res := Result{RunID: runID, Records: records, Stats: stats, Duration: time.Since(started)}
	log.Info("screen recorded",
		zap.Int("total", stats.Total), zap.Int("graham_cheap", stats.GrahamCheap),
		zap.Int("magic_cheap", stats.MagicCheap), zap.Int("failed", stats.Failed))
	if s.OnComplete != nil {
		s.OnComplete(res)
	}
	return res, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
