package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"ValueScreener/internal/model"
)

const (
	// DefaultYahooBaseURL serves chart, quoteSummary and crumb endpoints.
	DefaultYahooBaseURL = "https://query2.finance.yahoo.com"
	// DefaultYahooCookieURL hands out the session cookie the crumb is bound to.
	DefaultYahooCookieURL = "https://fc.yahoo.com"

	DefaultTimeout     = 30 * time.Second
	DefaultRateLimit   = 8
	DefaultMaxRetries  = 2
	DefaultBaseBackoff = 500 * time.Millisecond

	// DefaultCrumbCooldown is how long a failed crumb handshake is remembered.
	DefaultCrumbCooldown = time.Minute

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	summaryModules = "price,summaryDetail,defaultKeyStatistics,financialData,assetProfile"
)

// YahooClient implements Client using the Yahoo Finance public API.
type YahooClient struct {
	BaseURL     string
	CookieURL   string
	Client      *http.Client
	MaxRetries  int
	BaseBackoff time.Duration
	SymbolMap   map[model.Ticker]string // maps internal ticker to Yahoo symbol

	CrumbCooldown time.Duration

	limiter *rate.Limiter
	logger  *zap.Logger

	crumbFlight singleflight.Group
	crumbMu     sync.Mutex
	crumb       string
	crumbFailed time.Time
}

// YahooOption configures a YahooClient.
type YahooOption func(*YahooClient)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) YahooOption {
	return func(c *YahooClient) { c.BaseURL = strings.TrimRight(baseURL, "/") }
}

// WithCookieURL sets the session cookie endpoint. Empty disables the handshake.
func WithCookieURL(cookieURL string) YahooOption {
	return func(c *YahooClient) { c.CookieURL = cookieURL }
}

// WithRateLimit caps outgoing requests per second. Zero removes the cap.
func WithRateLimit(requestsPerSecond int) YahooOption {
	return func(c *YahooClient) {
		switch {
		case requestsPerSecond == 0:
			c.limiter = rate.NewLimiter(rate.Inf, 0)
		case requestsPerSecond > 0:
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithRetries sets the retry budget and the first backoff step.
func WithRetries(maxRetries int, baseBackoff time.Duration) YahooOption {
	return func(c *YahooClient) {
		c.MaxRetries = maxRetries
		c.BaseBackoff = baseBackoff
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) YahooOption {
	return func(c *YahooClient) {
		if d > 0 {
			c.Client.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) YahooOption {
	return func(c *YahooClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewYahooClient creates a Yahoo Finance client with optional proxy support.
func NewYahooClient(proxyURL string, opts ...YahooOption) *YahooClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	jar, _ := cookiejar.New(nil)
	c := &YahooClient{
		BaseURL:   DefaultYahooBaseURL,
		CookieURL: DefaultYahooCookieURL,
		Client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
			Jar:       jar,
		},
		MaxRetries:  DefaultMaxRetries,
		BaseBackoff: DefaultBaseBackoff,
		SymbolMap: map[model.Ticker]string{
			"BRK.B": "BRK-B",
			"BF.B":  "BF-B",
		},
		CrumbCooldown: DefaultCrumbCooldown,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *YahooClient) Name() string { return "yahoo" }

func (c *YahooClient) yahooSymbol(ticker model.Ticker) string {
	if mapped, ok := c.SymbolMap[ticker]; ok {
		return mapped
	}
	return string(ticker)
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(vals []interface{}, i int) float64 {
	if i >= len(vals) {
		return 0
	}
	return toFloat(vals[i])
}

// FetchHistory returns daily bars covering period, oldest first.
func (c *YahooClient) FetchHistory(ctx context.Context, ticker model.Ticker, period model.Period) (model.PriceHistory, error) {
	const op = "history"
	hist := model.PriceHistory{Ticker: ticker, Period: period}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.BaseURL, url.PathEscape(c.yahooSymbol(ticker)), url.QueryEscape(string(period)))
	body, status, err := c.get(ctx, u)
	if err != nil {
		return hist, networkErr(ticker, op, err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return hist, networkErr(ticker, op, fmt.Errorf("decode chart (status %d): %w", status, err))
	}
	if e := chart.Chart.Error; e != nil {
		if e.Code == "Not Found" || status == http.StatusNotFound {
			return hist, notFound(ticker, op, e.Description)
		}
		return hist, networkErr(ticker, op, fmt.Errorf("yahoo api error %s: %s", e.Code, e.Description))
	}
	if status != http.StatusOK {
		return hist, networkErr(ticker, op, fmt.Errorf("status %d", status))
	}
	if len(chart.Chart.Result) == 0 {
		return hist, notFound(ticker, op, "no chart result")
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return hist, nil
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		cl := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	hist.Bars = bars
	return hist, nil
}

// FetchFundamentals returns valuation, profitability and profile data for ticker.
func (c *YahooClient) FetchFundamentals(ctx context.Context, ticker model.Ticker) (model.Fundamentals, error) {
	const op = "fundamentals"
	info := model.Fundamentals{Ticker: ticker}

	crumb := c.ensureCrumb(ctx)
	q := url.Values{}
	q.Set("modules", summaryModules)
	if crumb != "" {
		q.Set("crumb", crumb)
	}
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.BaseURL, url.PathEscape(c.yahooSymbol(ticker)), q.Encode())

	body, status, err := c.get(ctx, u)
	if err != nil {
		return info, networkErr(ticker, op, err)
	}
	if status == http.StatusUnauthorized {
		c.resetCrumb()
		return info, networkErr(ticker, op, errors.New("unauthorized, crumb rejected"))
	}
	if !gjson.ValidBytes(body) {
		return info, networkErr(ticker, op, fmt.Errorf("invalid json (status %d)", status))
	}

	res := gjson.GetBytes(body, "quoteSummary.result.0")
	if !res.Exists() {
		code := gjson.GetBytes(body, "quoteSummary.error.code").String()
		desc := gjson.GetBytes(body, "quoteSummary.error.description").String()
		if code == "Not Found" || status == http.StatusNotFound {
			return info, notFound(ticker, op, desc)
		}
		return info, networkErr(ticker, op, fmt.Errorf("yahoo api error %s: %s (status %d)", code, desc, status))
	}

	return parseSummary(ticker, res), nil
}

// typed maps quoteSummary paths onto Fundamentals fields. First hit wins.
var typed = []struct {
	paths []string
	set   func(f *model.Fundamentals, v float64)
}{
	{[]string{"financialData.currentPrice", "price.regularMarketPrice"}, func(f *model.Fundamentals, v float64) { f.CurrentPrice = model.Float(v) }},
	{[]string{"summaryDetail.trailingPE", "defaultKeyStatistics.trailingPE"}, func(f *model.Fundamentals, v float64) { f.TrailingPE = model.Float(v) }},
	{[]string{"defaultKeyStatistics.priceToBook"}, func(f *model.Fundamentals, v float64) { f.PriceToBook = model.Float(v) }},
	{[]string{"financialData.returnOnEquity"}, func(f *model.Fundamentals, v float64) { f.ReturnOnEquity = model.Float(v) }},
	{[]string{"financialData.returnOnAssets"}, func(f *model.Fundamentals, v float64) { f.ReturnOnAssets = model.Float(v) }},
	{[]string{"financialData.ebitdaMargins"}, func(f *model.Fundamentals, v float64) { f.EBITDAMargins = model.Float(v) }},
	{[]string{"summaryDetail.dividendYield"}, func(f *model.Fundamentals, v float64) { f.DividendYield = model.Float(v) }},
}

var extraModules = []string{"summaryDetail", "defaultKeyStatistics", "financialData"}

func parseSummary(ticker model.Ticker, res gjson.Result) model.Fundamentals {
	f := model.Fundamentals{Ticker: ticker}
	used := make(map[string]bool)

	for _, t := range typed {
		for _, p := range t.paths {
			if v, ok := rawFloat(res, p); ok {
				t.set(&f, v)
				break
			}
		}
		for _, p := range t.paths {
			used[p[strings.IndexByte(p, '.')+1:]] = true
		}
	}

	f.LongName = res.Get("price.longName").String()
	if f.LongName == "" {
		f.LongName = res.Get("price.shortName").String()
	}
	profile := res.Get("assetProfile")
	f.Sector = profile.Get("sector").String()
	f.Industry = profile.Get("industry").String()
	f.Website = profile.Get("website").String()
	f.Country = profile.Get("country").String()
	f.BusinessSummary = profile.Get("longBusinessSummary").String()
	f.LogoURL = res.Get("price.logoUrl").String()
	profile.Get("companyOfficers").ForEach(func(_, o gjson.Result) bool {
		f.Officers = append(f.Officers, model.Officer{
			Name:  o.Get("name").String(),
			Title: o.Get("title").String(),
		})
		return true
	})

	for _, m := range extraModules {
		res.Get(m).ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			if used[key] {
				return true
			}
			if raw := v.Get("raw"); raw.Type == gjson.Number {
				if f.Extra == nil {
					f.Extra = make(map[string]any)
				}
				if _, dup := f.Extra[key]; !dup {
					f.Extra[key] = raw.Float()
				}
			}
			return true
		})
	}
	return f
}

// rawFloat reads Yahoo's {"raw": 1.2, "fmt": "1.20"} shape.
func rawFloat(res gjson.Result, path string) (float64, bool) {
	v := res.Get(path + ".raw")
	if v.Type != gjson.Number {
		return 0, false
	}
	return v.Float(), true
}

// ensureCrumb performs the cookie/crumb handshake once, shared by concurrent
// callers. A failed handshake is not retried until CrumbCooldown has passed.
func (c *YahooClient) ensureCrumb(ctx context.Context) string {
	if c.CookieURL == "" {
		return ""
	}
	if crumb, settled := c.cachedCrumb(); settled {
		return crumb
	}

	v, _, _ := c.crumbFlight.Do("crumb", func() (any, error) {
		if crumb, settled := c.cachedCrumb(); settled {
			return crumb, nil
		}
		crumb, err := c.handshake(ctx)
		c.crumbMu.Lock()
		defer c.crumbMu.Unlock()
		if err != nil {
			c.logger.Debug("yahoo crumb unavailable", zap.Error(err))
			c.crumbFailed = time.Now()
			return "", nil
		}
		c.crumb, c.crumbFailed = crumb, time.Time{}
		return crumb, nil
	})
	return v.(string)
}

// cachedCrumb reports the known crumb, or "" while a failed handshake is cooling down.
func (c *YahooClient) cachedCrumb() (string, bool) {
	c.crumbMu.Lock()
	defer c.crumbMu.Unlock()
	if c.crumb != "" {
		return c.crumb, true
	}
	if !c.crumbFailed.IsZero() && time.Since(c.crumbFailed) < c.CrumbCooldown {
		return "", true
	}
	return "", false
}

// handshake makes a single attempt at cookie then crumb, without retries.
func (c *YahooClient) handshake(ctx context.Context) (string, error) {
	if req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CookieURL, nil); err == nil {
		req.Header.Set("User-Agent", userAgent)
		if resp, err := c.Client.Do(req); err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	body, status, err := c.once(ctx, c.BaseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", err
	}
	crumb := strings.TrimSpace(string(body))
	if status != http.StatusOK || crumb == "" {
		return "", fmt.Errorf("getcrumb status %d", status)
	}
	return crumb, nil
}

func (c *YahooClient) resetCrumb() {
	c.crumbMu.Lock()
	c.crumb = ""
	c.crumbMu.Unlock()
}

// get performs a rate-limited GET with exponential backoff on transport errors, 429 and 5xx.
// Any other status is returned to the caller together with the body.
func (c *YahooClient) get(ctx context.Context, u string) ([]byte, int, error) {
	var lastErr error
	for i := 0; i <= c.MaxRetries; i++ {
		if i > 0 {
			backoff := c.BaseBackoff * time.Duration(1<<uint(i-1))
			c.logger.Warn("yahoo request failed, retrying",
				zap.Int("attempt", i), zap.Int("max_retries", c.MaxRetries),
				zap.Duration("backoff", backoff), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limiter: %w", err)
		}

		body, status, err := c.once(ctx, u)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, 0, err
			}
			continue
		}
		if status == http.StatusTooManyRequests || status >= 500 {
			lastErr = fmt.Errorf("status %d", status)
			continue
		}
		return body, status, nil
	}
	return nil, 0, fmt.Errorf("all %d attempts failed: %w", c.MaxRetries+1, lastErr)
}

func (c *YahooClient) once(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("yahoo read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
