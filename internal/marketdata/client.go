package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

const dateLayout = "2006-01-02"

// Client talks to an EODHD-compatible end-of-day data API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetries sets how often transient failures are retried.
func WithRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryDelay sets the pause between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDailyCache routes requests through a disk cache whose entries
// expire at the end of the day. End-of-day data does not change
// intraday, so repeated runs skip the network entirely.
func WithDailyCache(dir string) Option {
	return func(c *Client) {
		c.httpClient.Transport = &diskCache{dir: dir, base: transportOrDefault(c.httpClient.Transport)}
	}
}

// NewClient creates a Client for the given API base URL and token.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		maxRetries: 3,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DailyCandles fetches daily OHLCV bars. Rows without a positive close
// are dropped.
func (c *Client) DailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]*domain.Candle, error) {
	type row struct {
		Date          string  `json:"date"`
		Open          float64 `json:"open"`
		High          float64 `json:"high"`
		Low           float64 `json:"low"`
		Close         float64 `json:"close"`
		AdjustedClose float64 `json:"adjusted_close"`
		Volume        int64   `json:"volume"`
	}

	var rows []row
	if err := c.getJSON(ctx, c.endpoint("eod", symbol, from, to), &rows); err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", symbol, err)
	}

	candles := make([]*domain.Candle, 0, len(rows))
	for _, r := range rows {
		if r.Close <= 0 {
			continue
		}
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("parse candle date %q for %s: %w", r.Date, symbol, err)
		}
		candles = append(candles, &domain.Candle{
			Symbol:   symbol,
			Date:     domain.Day(date),
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			AdjClose: r.AdjustedClose,
			Volume:   r.Volume,
		})
	}

	c.logger.Debug("fetched candles", "symbol", symbol, "rows", len(rows), "kept", len(candles))
	return candles, nil
}

// Dividends fetches the cash dividend history.
func (c *Client) Dividends(ctx context.Context, symbol string, from, to time.Time) ([]*domain.Dividend, error) {
	type row struct {
		Date  string          `json:"date"`
		Value decimal.Decimal `json:"value"`
	}

	var rows []row
	if err := c.getJSON(ctx, c.endpoint("div", symbol, from, to), &rows); err != nil {
		return nil, fmt.Errorf("fetch dividends for %s: %w", symbol, err)
	}

	dividends := make([]*domain.Dividend, 0, len(rows))
	for _, r := range rows {
		if !r.Value.IsPositive() {
			continue
		}
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("parse dividend date %q for %s: %w", r.Date, symbol, err)
		}
		dividends = append(dividends, &domain.Dividend{
			Symbol: symbol,
			ExDate: domain.Day(date),
			Amount: r.Value,
		})
	}

	return dividends, nil
}

// Splits fetches the stock split history. The API reports ratios such as
// "4.000000/1.000000"; they are reduced to integer fractions.
func (c *Client) Splits(ctx context.Context, symbol string, from, to time.Time) ([]*domain.Split, error) {
	type row struct {
		Date  string `json:"date"`
		Split string `json:"split"`
	}

	var rows []row
	if err := c.getJSON(ctx, c.endpoint("splits", symbol, from, to), &rows); err != nil {
		return nil, fmt.Errorf("fetch splits for %s: %w", symbol, err)
	}

	splits := make([]*domain.Split, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("parse split date %q for %s: %w", r.Date, symbol, err)
		}
		num, den, err := parseSplitRatio(r.Split)
		if err != nil {
			return nil, fmt.Errorf("parse split ratio for %s: %w", symbol, err)
		}
		splits = append(splits, &domain.Split{
			Symbol:      symbol,
			Date:        domain.Day(date),
			Numerator:   num,
			Denominator: den,
		})
	}

	return splits, nil
}

func (c *Client) endpoint(kind, symbol string, from, to time.Time) string {
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", c.apiKey)
	q.Set("from", from.Format(dateLayout))
	q.Set("to", to.Format(dateLayout))
	return fmt.Sprintf("%s/%s/%s?%s", c.baseURL, kind, url.PathEscape(symbol), q.Encode())
}

// getJSON performs a GET with retries on transient failures and decodes
// the JSON response body into out.
func (c *Client) getJSON(ctx context.Context, addr string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request", "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := c.tryGetJSON(ctx, addr, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

// tryGetJSON performs a single request. The first return value reports
// whether the failure is worth retrying.
func (c *Client) tryGetJSON(ctx context.Context, addr string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, ErrSymbolNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, ErrUnauthorized
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("server error: %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, err
	}
	return false, json.Unmarshal(body, out)
}

func transportOrDefault(t http.RoundTripper) http.RoundTripper {
	if t == nil {
		return http.DefaultTransport
	}
	return t
}

// parseSplitRatio reduces a "num/den" decimal ratio to an integer
// fraction, scaling both sides until they are whole and dividing by the
// greatest common divisor.
func parseSplitRatio(s string) (num, den int64, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid split ratio %q", s)
	}

	numDec, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid split numerator %q: %w", parts[0], err)
	}
	denDec, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid split denominator %q: %w", parts[1], err)
	}
	if !numDec.IsPositive() || !denDec.IsPositive() {
		return 0, 0, fmt.Errorf("non-positive split ratio %q", s)
	}

	exp := -numDec.Exponent()
	if e := -denDec.Exponent(); e > exp {
		exp = e
	}
	multiplier := decimal.NewFromInt(1)
	if exp > 0 {
		multiplier = decimal.NewFromInt(10).Pow(decimal.NewFromInt32(exp))
	}

	numInt := numDec.Mul(multiplier).BigInt()
	denInt := denDec.Mul(multiplier).BigInt()

	gcd := new(big.Int).GCD(nil, nil, numInt, denInt)
	num = new(big.Int).Div(numInt, gcd).Int64()
	den = new(big.Int).Div(denInt, gcd).Int64()
	return num, den, nil
}
