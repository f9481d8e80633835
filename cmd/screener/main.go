package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ValueScreener/internal/cache"
	"ValueScreener/internal/calculator"
	"ValueScreener/internal/collector"
	"ValueScreener/internal/config"
	"ValueScreener/internal/logger"
	"ValueScreener/internal/model"
	"ValueScreener/internal/notifier"
	"ValueScreener/internal/provider"
	"ValueScreener/internal/recorder"
	"ValueScreener/internal/report"
	"ValueScreener/internal/scheduler"
	"ValueScreener/internal/universe"
)

const usage = `usage: screener <command> [flags]

commands:
  screen   collect the index and print the filtered table and statistics
  detail   print company details and indicators for one ticker
  watch    re-run the screen on the configured cron schedule

Run "screener <command> -h" for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "screen":
		err = runScreen(ctx, os.Args[2:])
	case "detail":
		err = runDetail(ctx, os.Args[2:])
	case "watch":
		err = runWatch(ctx, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "screener: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	client   provider.Client
	info     *cache.InfoCache
	history  *cache.HistoryCache
	col      *collector.Collector
	rec      recorder.Recorder
	index    universe.Index
	closeFns []func()
}

func (a *app) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
}

// commonFlags are accepted by every command and override the config file.
type commonFlags struct {
	index string
	mock  bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.index, "index", "", `ticker universe: "IBOVESPA" or "S&P 500" (overrides config)`)
	fs.BoolVar(&c.mock, "mock", false, "use generated data instead of Yahoo Finance")
}

func newApp(cf commonFlags) (*app, error) {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cf.index != "" {
		cfg.Screen.Index = cf.index
	}
	if cf.mock {
		cfg.DataSource.Mock = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}
	a.closeFns = append(a.closeFns, func() { _ = log.Sync() })

	a.index, _ = universe.ParseIndex(cfg.Screen.Index)

	// Init provider
	if cfg.DataSource.Mock {
		a.client = &provider.MockClient{}
	} else {
		opts := []provider.YahooOption{
			provider.WithRateLimit(cfg.DataSource.RateLimit),
			provider.WithRetries(cfg.DataSource.MaxRetries, cfg.DataSource.BaseBackoff),
			provider.WithTimeout(cfg.DataSource.Timeout),
			provider.WithLogger(log.Named("yahoo")),
		}
		if cfg.DataSource.BaseURL != "" {
			opts = append(opts, provider.WithBaseURL(cfg.DataSource.BaseURL))
		}
		if cfg.DataSource.CookieURL != "" {
			opts = append(opts, provider.WithCookieURL(cfg.DataSource.CookieURL))
		}
		a.client = provider.NewYahooClient(cfg.Proxy, opts...)
	}
	log.Info("data source", zap.String("name", a.client.Name()), zap.String("index", string(a.index)))

	// Init caches and collector
	a.info = cache.NewInfoCache(a.client, cfg.Cache.InfoCapacity, log.Named("cache"))
	a.history = cache.NewHistoryCache(a.client, cfg.Cache.HistoryTTL, log.Named("cache"))
	a.col = collector.NewCollector(a.info, a.history,
		collector.WithBatchSize(cfg.Collector.BatchSize),
		collector.WithCallTimeout(cfg.Collector.CallTimeout),
		collector.WithLogger(log.Named("collector")),
	)

	// Init recorder
	sr, err := recorder.NewSQLiteRecorder(log.Named("recorder"))
	if err != nil {
		log.Warn("init sqlite recorder failed, using memory", zap.Error(err))
		a.rec = recorder.NewMemoryRecorder()
	} else {
		a.rec = sr
	}
	a.closeFns = append(a.closeFns, func() { _ = a.rec.Close() })

	return a, nil
}

func (a *app) filter(graham, magic, sortBy string) (recorder.Filter, error) {
	var f recorder.Filter
	if graham == "" {
		graham = a.cfg.Screen.Graham
	}
	if magic == "" {
		magic = a.cfg.Screen.Magic
	}
	if sortBy == "" {
		sortBy = a.cfg.Screen.SortBy
	}
	for _, p := range []struct {
		val string
		dst **model.Label
	}{{graham, &f.Graham}, {magic, &f.Magic}} {
		if p.val == "" || p.val == "all" {
			continue
		}
		l, err := model.ParseLabel(p.val)
		if err != nil {
			return f, err
		}
		*p.dst = &l
	}
	var err error
	f.SortBy, err = recorder.ParseSortKey(sortBy)
	return f, err
}

func printProgress(p collector.Progress) {
	fmt.Fprintf(os.Stderr, "\r%s", report.FormatProgress(p))
	if p.Batch == p.Batches {
		fmt.Fprintln(os.Stderr)
	}
}

func runScreen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("screen", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	graham := fs.String("graham", "", "show only this Graham label: cheap, expensive, undefined or all")
	magic := fs.String("magic", "", "show only this Magic Formula label: cheap, expensive, undefined or all")
	sortBy := fs.String("sort", "", "sort by ticker, price, pe, pb or roe (descending)")
	fs.Parse(args)

	a, err := newApp(cf)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := a.filter(*graham, *magic, *sortBy)
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(ctx, a.col, a.history, a.rec, universe.Tickers(a.index), a.log.Named("scheduler"))
	sched.OnProgress = collector.ProgressFunc(printProgress)
	res, err := sched.RunNow()
	if err != nil {
		return err
	}

	rows, err := a.rec.Query(f)
	if err != nil {
		return err
	}
	fmt.Printf("%s screen: %d tickers in %s\n\n", a.index, len(res.Records), res.Duration.Round(10*time.Millisecond))
	fmt.Print(report.FormatTable(rows))
	fmt.Println()
	fmt.Print(report.FormatStats(res.Stats))
	return nil
}

func runDetail(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("detail", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	period := fs.String("period", string(model.Period1y), "price history period: 1mo, 3mo, 6mo, 1y, 2y or 5y")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("detail needs exactly one ticker")
	}

	p, err := model.ParsePeriod(*period)
	if err != nil {
		return err
	}
	a, err := newApp(cf)
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := universe.Normalize(fs.Arg(0), a.index)
	if ticker == "" {
		return errors.New("empty ticker")
	}

	info := a.info.Get(ctx, ticker)
	hist := a.history.Get(ctx, ticker, p)

	fmt.Print(report.FormatDetail(info))
	fmt.Println()
	fmt.Print(report.FormatAnalysis(calculator.Analyze(hist), hist))
	return nil
}

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	runOnStart := fs.Bool("now", true, "run a screen immediately before the first tick")
	fs.Parse(args)

	a, err := newApp(cf)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.NewScheduler(ctx, a.col, a.history, a.rec, universe.Tickers(a.index), a.log.Named("scheduler"))
	var tn *notifier.TelegramNotifier
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log.Named("telegram"))
	}
	sched.OnComplete = func(res scheduler.Result) {
		fmt.Printf("run %s finished in %s\n", res.RunID, res.Duration.Round(10*time.Millisecond))
		fmt.Print(report.FormatStats(res.Stats))
		if tn == nil {
			return
		}
		if err := tn.SendWithRetry(ctx, report.FormatAlert(string(a.index), res.Stats, res.Records), 3); err != nil {
			a.log.Error("send alert", zap.Error(err))
		}
	}
	if err := sched.Register(a.cfg.Screen.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if *runOnStart {
		sched.RunAsync()
	}

	a.log.Info("watching, press Ctrl+C to stop", zap.String("cron", a.cfg.Screen.Cron))
	<-ctx.Done()
	a.log.Info("shutdown signal received, stopping")
	return nil
}
